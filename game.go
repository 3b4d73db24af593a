package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/cocoablast/common"
	"github.com/milk9111/cocoablast/ecs"
	"github.com/milk9111/cocoablast/ecs/component"
	"github.com/milk9111/cocoablast/ecs/entity"
	"github.com/milk9111/cocoablast/prefabs"
	"github.com/milk9111/cocoablast/save"
	"github.com/milk9111/cocoablast/scene"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

const trailLength = 6

// body colors keyed by prefab name
var bodyColors = map[string]color.Color{
	entity.ShipPrefab:       colornames.Skyblue,
	entity.AsteroidPrefab:   colornames.Saddlebrown,
	entity.ProjectilePrefab: colornames.Gold,
}

type Game struct {
	scene   *scene.Scene
	best    *save.BestScore
	watcher *prefabs.Watcher
	pauseUI *ebitenui.UI
	logger  *zap.Logger

	debug  bool
	paused bool
	// simulation clock in seconds, frozen while paused
	clock float64

	mouseDown bool
	touch     ebiten.TouchID
	touching  bool
}

func NewGame(sc *scene.Scene, best *save.BestScore, watcher *prefabs.Watcher, logger *zap.Logger, debug bool) *Game {
	g := &Game{
		scene:   sc,
		best:    best,
		watcher: watcher,
		logger:  logger,
		debug:   debug,
	}
	g.pauseUI = NewPauseUI(g)
	return g
}

func (g *Game) Update() error {
	g.reloadPrefabs()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}
	if g.scene.GameOver() && inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.restart()
		return nil
	}

	g.handleMouse()
	g.handleTouch()

	g.clock += 1 / float64(ebiten.TPS())
	g.scene.Tick(g.clock)
	return nil
}

func (g *Game) restart() {
	if err := g.scene.Reset(); err != nil {
		g.logger.Error("restart", zap.Error(err))
		return
	}
	g.paused = false
	g.mouseDown = false
	g.touching = false
}

func (g *Game) handleMouse() {
	x, y := ebiten.CursorPosition()
	p := g.toScene(float64(x), float64(y))
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.mouseDown = true
		g.scene.HandleInputDown(p)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		if g.mouseDown {
			g.mouseDown = false
			g.scene.HandleInputUp(p)
		}
	case g.mouseDown:
		g.scene.HandleInputMoved(p)
	}
}

// handleTouch follows the first touch only.
func (g *Game) handleTouch() {
	if !g.touching {
		ids := inpututil.AppendJustPressedTouchIDs(nil)
		if len(ids) == 0 {
			return
		}
		g.touch = ids[0]
		g.touching = true
		x, y := ebiten.TouchPosition(g.touch)
		g.scene.HandleInputDown(g.toScene(float64(x), float64(y)))
		return
	}
	if inpututil.IsTouchJustReleased(g.touch) {
		g.touching = false
		x, y := inpututil.TouchPositionInPreviousTick(g.touch)
		g.scene.HandleInputUp(g.toScene(float64(x), float64(y)))
		return
	}
	x, y := ebiten.TouchPosition(g.touch)
	g.scene.HandleInputMoved(g.toScene(float64(x), float64(y)))
}

// reloadPrefabs applies file edits reported by the watcher without blocking.
func (g *Game) reloadPrefabs() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Names:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.scene.ReloadPrefab(name); err != nil {
				g.logger.Warn("reload prefab", zap.String("name", name), zap.Error(err))
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Warn("prefab watcher", zap.Error(err))
		default:
			return
		}
	}
}

// toScene maps screen pixels to scene units with the origin at the center
// and y pointing up.
func (g *Game) toScene(x, y float64) common.Vec2 {
	cfg := g.scene.Config()
	return common.Vec2{
		X: (x/common.BaseWidth - 0.5) * cfg.Width,
		Y: (0.5 - y/common.BaseHeight) * cfg.Height,
	}
}

func (g *Game) toScreen(p common.Vec2) (float32, float32) {
	cfg := g.scene.Config()
	return float32((p.X/cfg.Width + 0.5) * common.BaseWidth),
		float32((0.5 - p.Y/cfg.Height) * common.BaseHeight)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	scale := float32(common.BaseWidth / g.scene.Config().Width)
	for _, b := range g.scene.Physics().Bodies() {
		x, y := g.toScreen(b.Position())
		for _, effect := range b.Effects() {
			g.drawTrail(screen, effect, b, scale)
		}
		clr, ok := bodyColors[b.Name()]
		if !ok {
			clr = colornames.White
		}
		vector.DrawFilledCircle(screen, x, y, float32(b.Radius())*scale, clr, true)
	}

	g.drawHUD(screen)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

// drawTrail renders an effect as a short fading tail behind the body.
func (g *Game) drawTrail(screen *ebiten.Image, effect *component.Effect, b *ecs.PhysicsBody, scale float32) {
	v := b.Velocity()
	if v.Len() == 0 || effect.BirthRate <= 0 {
		return
	}
	step := v.Scale(-1 / effect.BirthRate)
	p := b.Position()
	for i := 1; i <= trailLength; i++ {
		p = p.Add(step)
		x, y := g.toScreen(p)
		alpha := uint8(common.Lerp(200, 20, float32(i)/trailLength))
		vector.DrawFilledCircle(screen, x, y, float32(b.Radius())*scale*0.6, color.NRGBA{R: 0xff, G: 0xa5, A: alpha}, true)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	msg := fmt.Sprintf("Score: %d    Best: %d", g.scene.Score(), g.bestScore())
	if g.scene.GameOver() {
		msg += "\nGAME OVER - press R to restart"
	}
	if g.debug {
		c := g.scene.Cadence()
		msg += fmt.Sprintf("\nFPS: %.2f    Entities: %d\nSpawned: %d    Interval: %.2f",
			ebiten.ActualFPS(), g.scene.World().Len(), g.scene.Spawned(), c.Interval+c.Base)
	}
	ebitenutil.DebugPrint(screen, msg)
}

func (g *Game) bestScore() int {
	if g.best == nil {
		return g.scene.Score()
	}
	return max(g.best.Best(), g.scene.Score())
}

// Submit records the score of a finished run.
func (g *Game) Submit(score int) {
	if g.best == nil {
		return
	}
	if _, err := g.best.Submit(score, g.scene.RunID()); err != nil {
		g.logger.Warn("save best score", zap.Error(err))
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
