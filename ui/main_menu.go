package ui

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/wallrunner/settings"
	"golang.org/x/image/font/basicfont"
)

const sliderSteps = 100

// Actions are the main buttons' handlers.
type Actions struct {
	Play func()
	Quit func()
}

// MainMenu is the ebitenui tree for the title menu plus its toggle logic.
type MainMenu struct {
	UI   *ebitenui.UI
	Menu *Menu
}

// containerPanel shows and hides a container through its widget visibility.
type containerPanel struct {
	c *widget.Container
}

func (p containerPanel) Active() bool {
	return p.c.GetWidget().Visibility == widget.Visibility_Show
}

func (p containerPanel) SetActive(active bool) {
	if active {
		p.c.GetWidget().Visibility = widget.Visibility_Show
	} else {
		p.c.GetWidget().Visibility = widget.Visibility_Hide
	}
}

type sliderValue struct {
	s *widget.Slider
}

func (v sliderValue) Value() float64 {
	return float64(v.s.Current) / sliderSteps
}

// NewMainMenu builds the menu centred on a width x height screen. The slider
// starts at the persisted volume.
func NewMainMenu(store settings.Store, actions Actions, width, height int) (*MainMenu, error) {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := &widget.ButtonImage{
		Idle:    imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}),
		Hover:   imageui.NewNineSliceColor(color.NRGBA{R: 0x4b, G: 0x4b, B: 0x4b, A: 255}),
		Pressed: imageui.NewNineSliceColor(color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 255}),
	}

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	centered := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter, Stretch: true})

	newPanel := func() *widget.Container {
		return widget.NewContainer(
			widget.ContainerOpts.BackgroundImage(panelImg),
			widget.ContainerOpts.Layout(widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(10),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
			)),
			widget.ContainerOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(width/3, height/3),
				widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
			),
		)
	}
	newButton := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(btnImg),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(centered),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
				if onClick != nil {
					onClick()
				}
			}),
		)
	}
	newLabel := func(label string) *widget.Text {
		return widget.NewText(
			widget.TextOpts.Text(label, &face, white),
			widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
		)
	}

	mainPanel := newPanel()
	settingsPanel := newPanel()
	settingsPanel.GetWidget().Visibility = widget.Visibility_Hide

	slider := widget.NewSlider(
		widget.SliderOpts.Direction(widget.DirectionHorizontal),
		widget.SliderOpts.MinMax(0, sliderSteps),
		widget.SliderOpts.Images(
			&widget.SliderTrackImage{
				Idle:  imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255}),
				Hover: imageui.NewNineSliceColor(color.NRGBA{R: 0x66, G: 0x66, B: 0x66, A: 255}),
			},
			btnImg,
		),
		widget.SliderOpts.FixedHandleSize(8),
		widget.SliderOpts.WidgetOpts(centered, widget.WidgetOpts.MinSize(width/4, 16)),
	)
	slider.Current = int(settings.Volume(store)*sliderSteps + 0.5)

	menu, err := NewMenu(containerPanel{mainPanel}, containerPanel{settingsPanel}, sliderValue{slider}, store)
	if err != nil {
		return nil, err
	}

	mainPanel.AddChild(newLabel("WALLRUNNER"))
	mainPanel.AddChild(newButton("Play", actions.Play))
	mainPanel.AddChild(newButton("Settings", func() { menu.OpenSettings() }))
	mainPanel.AddChild(newButton("Quit", actions.Quit))

	settingsPanel.AddChild(newLabel("Volume"))
	settingsPanel.AddChild(slider)
	settingsPanel.AddChild(newButton("Back", func() { menu.OpenMainButtons() }))

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(mainPanel)
	root.AddChild(settingsPanel)

	return &MainMenu{UI: &ebitenui.UI{Container: root}, Menu: menu}, nil
}

func (m *MainMenu) Update() {
	m.UI.Update()
	m.Menu.Update()
}

func (m *MainMenu) Draw(screen *ebiten.Image) {
	m.UI.Draw(screen)
}
