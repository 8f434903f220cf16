package client

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tomz197/blaster/internal/draw"
	"github.com/tomz197/blaster/internal/loop/config"
	"github.com/tomz197/blaster/internal/loop/server"
)

// Entity sizes in logical units.
const (
	playerSize   = 12.0
	enemySize    = 10.0
	bulletWidth  = 2.0
	bulletHeight = 6.0
	bossWidth    = 40.0
	bossHeight   = 20.0
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	snap := c.server.GetSnapshot()

	// Full clear on screen transitions so the previous screen's text is gone.
	if !c.state.drawnOnce || snap.Mode != c.state.prevMode || snap.Paused != c.state.prevPaused {
		io.WriteString(c.frame, draw.EscClear)
		c.canvas.ForceRedraw()
		c.state.prevMode = snap.Mode
		c.state.prevPaused = snap.Paused
		c.state.drawnOnce = true
	}

	c.canvas.Clear()
	if snap.Mode == server.ModePlaying {
		c.drawField(snap)
	}
	c.canvas.Render(c.frame)
	c.canvas.RenderBorder(c.frame)

	c.drawUI(snap)

	return c.frame.Flush()
}

// drawField rasterizes all entities onto the canvas.
func (c *Client) drawField(snap *server.Snapshot) {
	for _, p := range snap.Particles {
		c.canvas.SetFloat(p.X, p.Y)
	}
	for _, b := range snap.Bullets {
		c.canvas.FillCentered(b.X, b.Y, bulletWidth, bulletHeight)
	}
	for _, e := range snap.Enemies {
		c.canvas.FillRect(e.X, e.Y, enemySize, enemySize)
	}
	if snap.Boss != nil {
		c.canvas.FillCentered(snap.Boss.X, snap.Boss.Y, bossWidth, bossHeight)
	}
	c.canvas.FillCentered(snap.Player.X, snap.Player.Y, playerSize, playerSize)
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(snap *server.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	switch snap.Mode {
	case server.ModeMenu:
		c.drawMenuScreen(centerX, centerY, snap)
	case server.ModeShop:
		c.drawShopScreen(centerX, centerY, snap)
	case server.ModeGameOver:
		c.drawGameOverScreen(centerX, centerY, snap)
	case server.ModePlaying:
		c.drawPlayingHUD(termWidth, snap)
		if snap.Paused {
			c.drawPausedOverlay(centerX, centerY)
		}
	}
}

var titleArt = []string{
	` ___ _      _   ___ _____ ___ ___  `,
	`| _ ) |    /_\ / __|_   _| __| _ \ `,
	`| _ \ |__ / _ \\__ \ | | | _||   / `,
	`|___/____/_/ \_\___/ |_| |___|_|_\ `,
}

// drawMenuScreen draws the title screen.
func (c *Client) drawMenuScreen(centerX, centerY int, snap *server.Snapshot) {
	fr := c.frame
	top := centerY - 8
	for i, line := range titleArt {
		fr.Centered(centerX, top+i, line)
	}

	row := top + len(titleArt) + 1
	fr.Centered(centerX, row, fmt.Sprintf("High score: %d   Coins: %d", snap.HighScore, snap.Coins))

	controls := []string{
		"Arrows / WASD . . Move",
		"SPACE . . . . . . Fire",
		"P . . . . . . .  Pause",
		"U . . . . . . . . Shop",
		"Q . . . . . . . . Quit",
	}
	for i, line := range controls {
		fr.Centered(centerX, row+2+i, line)
	}

	c.blinkCentered(centerX, row+len(controls)+3, ">>  Press ENTER to Start  <<")
}

// drawShopScreen draws the upgrade shop.
func (c *Client) drawShopScreen(centerX, centerY int, snap *server.Snapshot) {
	fr := c.frame
	fr.Centered(centerX, centerY-5, "UPGRADE SHOP")
	fr.Centered(centerX, centerY-3, fmt.Sprintf("Coins: %-6d", snap.Coins))

	fr.Centered(centerX, centerY-1, fmt.Sprintf("[1] Damage     %3d  (+%d for %d coins)", snap.Damage, config.DamageStep, config.UpgradeCost))
	fr.Centered(centerX, centerY, fmt.Sprintf("[2] Fire rate  %3d  (+%d for %d coins)", snap.FireRate, config.FireRateStep, config.UpgradeCost))

	if snap.Coins < config.UpgradeCost {
		fr.Centered(centerX, centerY+2, "Not enough coins")
	} else {
		fr.Centered(centerX, centerY+2, strings.Repeat(" ", len("Not enough coins")))
	}
	fr.Centered(centerX, centerY+4, "M to return to menu")
}

// drawGameOverScreen draws the end of run summary.
func (c *Client) drawGameOverScreen(centerX, centerY int, snap *server.Snapshot) {
	fr := c.frame
	fr.Centered(centerX, centerY-4, "G A M E   O V E R")
	fr.Centered(centerX, centerY-2, fmt.Sprintf("Score: %d   Level: %d", snap.Score, snap.Level))
	fr.Centered(centerX, centerY-1, fmt.Sprintf("High score: %d", snap.HighScore))
	fr.Centered(centerX, centerY+1, fmt.Sprintf("Coins: %d", snap.Coins))

	c.blinkCentered(centerX, centerY+3, ">>  ENTER to play again, M for menu  <<")
}

// drawPlayingHUD draws the in-game HUD.
// Fields are padded so shrinking values don't leave residual characters.
func (c *Client) drawPlayingHUD(termWidth int, snap *server.Snapshot) {
	fr := c.frame

	left := fmt.Sprintf("Score: %-8d Level: %-3d", snap.Score, snap.Level)
	fr.Text(2, 1, left)
	c.canvas.MarkTextDirty(2, 1, len(left))

	right := fmt.Sprintf("Coins: %-5d Lives: %s", snap.Coins, lives(snap.Lives))
	col := max(termWidth-len([]rune(right)), 1)
	fr.Text(col, 1, right)
	c.canvas.MarkTextDirty(col, 1, len([]rune(right)))

	if snap.Boss != nil {
		hp := fmt.Sprintf("BOSS %d", snap.Boss.HP)
		bcol, brow := c.canvas.LogicalToTerminal(snap.Boss.X, snap.Boss.Y+bossHeight)
		bcol -= len(hp) / 2
		if brow >= 1 && brow <= c.canvas.TerminalHeight() && bcol >= 1 {
			fr.Text(bcol, brow, hp)
			c.canvas.MarkTextDirty(bcol, brow, len(hp))
		}
	}
}

func lives(n int) string {
	if n <= 0 {
		return "   "
	}
	return strings.Repeat("♥", n) + strings.Repeat(" ", max(config.InitialLives-n, 0))
}

// drawPausedOverlay draws the pause banner over the frozen field.
func (c *Client) drawPausedOverlay(centerX, centerY int) {
	msg := "PAUSED - press P to resume"
	c.frame.Centered(centerX, centerY, msg)
	c.canvas.MarkTextDirty(centerX-len(msg)/2, centerY, len(msg))
}

// blinkCentered shows s during the on phase of a 600ms blink and blanks it
// during the off phase.
func (c *Client) blinkCentered(centerX, row int, s string) {
	if time.Now().UnixMilli()/600%2 != 0 {
		s = strings.Repeat(" ", len(s))
	}
	c.frame.Centered(centerX, row, s)
}
