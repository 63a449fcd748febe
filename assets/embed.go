package assets

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const SampleRate = 44100

var (
	audioOnce    sync.Once
	audioContext *audio.Context

	pcmMu    sync.Mutex
	pcmCache = make(map[string][]byte)
)

func sharedContext() *audio.Context {
	audioOnce.Do(func() {
		audioContext = audio.NewContext(SampleRate)
	})
	return audioContext
}

// NewLoopPlayer returns a looping player for the named music track. A wav
// file at assets/music/<track>.wav takes precedence; otherwise the built-in
// synthesized loop is used. Callers close the player when the scene ends;
// the synthesized samples are shared between players of the same track.
func NewLoopPlayer(track string) (*audio.Player, error) {
	ctx := sharedContext()

	if b, err := os.ReadFile(musicPath(track)); err == nil {
		stream, err := wav.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("decode wav %q: %w", track, err)
		}
		return ctx.NewPlayer(audio.NewInfiniteLoop(stream, stream.Length()))
	}

	pcm, err := synthesized(track)
	if err != nil {
		return nil, err
	}
	return ctx.NewPlayer(audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm))))
}

// synthesized returns the cached samples for track, generating them once.
func synthesized(track string) ([]byte, error) {
	pcmMu.Lock()
	defer pcmMu.Unlock()
	if pcm, ok := pcmCache[track]; ok {
		return pcm, nil
	}
	pcm, err := Synthesize(track)
	if err != nil {
		return nil, err
	}
	pcmCache[track] = pcm
	return pcm, nil
}

func musicPath(track string) string {
	return filepath.Join("assets", "music", cleanAssetPath(track)+".wav")
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "assets/") {
		s = strings.TrimPrefix(s, "assets/")
	}
	return strings.TrimSuffix(s, ".wav")
}
