package ecs

import (
	"testing"

	"github.com/milk9111/wallrunner/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			require.Len(t, Entities(w), c.create)

			if c.destroyIndex >= 0 {
				assert.True(t, DestroyEntity(w, ents[c.destroyIndex]))
				assert.False(t, IsAlive(w, ents[c.destroyIndex]))
				assert.False(t, DestroyEntity(w, ents[c.destroyIndex]))
				assert.Len(t, Entities(w), c.create-1)
			}
		})
	}
}

func TestReusedSlotGetsNewGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	require.NoError(t, Add(w, old, h.Kind(), intPtr(1)))
	require.True(t, DestroyEntity(w, old))

	reused := CreateEntity(w)
	assert.Equal(t, old.id(), reused.id())
	assert.NotEqual(t, old, reused)
	assert.False(t, IsAlive(w, old))
	assert.False(t, Has(w, reused, h.Kind()), "components do not survive destroy")

	assert.ErrorIs(t, Add(w, old, h.Kind(), intPtr(2)), component.ErrEntityNotAlive)
}

func TestAddValidation(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	assert.ErrorIs(t, Add(w, e, component.ComponentKind[int]{}, intPtr(1)), component.ErrInvalidComponentKind)
	assert.ErrorIs(t, Add[int](w, e, component.NewComponentKind[int](), nil), component.ErrNilComponent)
	assert.ErrorIs(t, Add(w, Entity(0), component.NewComponentKind[int](), intPtr(1)), component.ErrEntityNotAlive)
}

func TestGetRemoveFirst(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[string]()
	s := "a"

	_, ok := First(w, h.Kind())
	assert.False(t, ok)

	e := CreateEntity(w)
	require.NoError(t, Add(w, e, h.Kind(), &s))

	v, ok := Get(w, e, h.Kind())
	require.True(t, ok)
	*v = "b"
	assert.Equal(t, "b", s, "Get returns the stored pointer")

	first, ok := First(w, h.Kind())
	assert.True(t, ok)
	assert.Equal(t, e, first)

	assert.True(t, Remove(w, e, h.Kind()))
	assert.False(t, Remove(w, e, h.Kind()))
	_, ok = Get(w, e, h.Kind())
	assert.False(t, ok)
}

func TestForEachIntersections(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()
	kc := component.NewComponentKind[int]()
	kd := component.NewComponentKind[int]()

	all := CreateEntity(w)
	three := CreateEntity(w)
	one := CreateEntity(w)
	dead := CreateEntity(w)
	for _, k := range []component.ComponentKind[int]{ka, kb, kc, kd} {
		require.NoError(t, Add(w, all, k, intPtr(1)))
		require.NoError(t, Add(w, dead, k, intPtr(1)))
	}
	for _, k := range []component.ComponentKind[int]{ka, kb, kc} {
		require.NoError(t, Add(w, three, k, intPtr(1)))
	}
	require.NoError(t, Add(w, one, ka, intPtr(1)))
	require.True(t, DestroyEntity(w, dead))

	collect := func(run func(add func(Entity))) []Entity {
		var out []Entity
		run(func(e Entity) { out = append(out, e) })
		return out
	}

	assert.ElementsMatch(t, []Entity{all, three, one}, collect(func(add func(Entity)) {
		ForEach(w, ka, func(e Entity, _ *int) { add(e) })
	}))
	assert.ElementsMatch(t, []Entity{all, three}, collect(func(add func(Entity)) {
		ForEach2(w, ka, kb, func(e Entity, _, _ *int) { add(e) })
	}))
	assert.ElementsMatch(t, []Entity{all, three}, collect(func(add func(Entity)) {
		ForEach3(w, ka, kb, kc, func(e Entity, _, _, _ *int) { add(e) })
	}))
	assert.ElementsMatch(t, []Entity{all}, collect(func(add func(Entity)) {
		ForEach4(w, ka, kb, kc, kd, func(e Entity, _, _, _, _ *int) { add(e) })
	}))
}

func TestForEachMissingStore(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()
	e := CreateEntity(w)
	require.NoError(t, Add(w, e, ka, intPtr(1)))

	called := false
	ForEach2(w, ka, kb, func(Entity, *int, *int) { called = true })
	assert.False(t, called)
}

func TestForEachAllowsDestroy(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	for i := 0; i < 5; i++ {
		require.NoError(t, Add(w, CreateEntity(w), h.Kind(), intPtr(i)))
	}

	visited := 0
	ForEach(w, h.Kind(), func(e Entity, _ *int) {
		visited++
		DestroyEntity(w, e)
	})
	assert.Equal(t, 5, visited)
	assert.Empty(t, Entities(w))
}

func TestEventQueue(t *testing.T) {
	w := NewWorld()
	q := w.Events()
	q.Push(Event{Type: EventTypeCollision, Data: CollisionEvent{Kind: CollisionEventEnter}})
	q.Push(Event{Type: "other"})
	assert.Equal(t, 2, q.Len())

	events := q.Drain()
	require.Len(t, events, 2)
	assert.Equal(t, CollisionEventEnter, events[0].Data.(CollisionEvent).Kind)
	assert.Zero(t, q.Len())
	assert.Nil(t, q.Drain())
}

func TestSystemFunc(t *testing.T) {
	w := NewWorld()
	w.SetDeltaTime(0.5)
	var got float64
	var s System = SystemFunc(func(w *World) { got = w.DeltaTime() })
	s.Update(w)
	assert.Equal(t, 0.5, got)
}

func TestNilWorld(t *testing.T) {
	var w *World
	assert.Zero(t, CreateEntity(w))
	assert.False(t, IsAlive(w, Entity(1)))
	assert.Nil(t, Entities(w))
	assert.Zero(t, w.DeltaTime())
	assert.Zero(t, w.Events().Len())
}
