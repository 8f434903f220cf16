package server

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/tomz197/blaster/internal/economy"
	"github.com/tomz197/blaster/internal/economy/mocks"
	"github.com/tomz197/blaster/internal/loop/config"
	"github.com/tomz197/blaster/internal/object"
)

// farPlayer keeps the player out of reach of every test entity.
func farPlayer() object.Player {
	return object.NewPlayer(0, config.FieldHeight, 1)
}

func TestBulletKillsEnemy(t *testing.T) {
	g := newTestGame(t, economy.Defaults())
	g.Start()
	s := g.state
	s.Player = farPlayer()
	s.Enemies = []object.Enemy{{X: 100, Y: 100, Speed: 0}}
	s.Bullets = []object.Bullet{{X: 105, Y: 114}} // reaches y=104 after moving

	g.Tick()

	if len(s.Enemies) != 0 || len(s.Bullets) != 0 {
		t.Fatalf("enemies = %d bullets = %d, want both removed", len(s.Enemies), len(s.Bullets))
	}
	if s.Score != 51 {
		t.Fatalf("score = %d, want 50 kill + 1 survival", s.Score)
	}
	if len(s.Particles) != config.BurstSize {
		t.Fatalf("particles = %d, want %d", len(s.Particles), config.BurstSize)
	}
	if coins := g.economy.Data().Coins; coins != 1 {
		t.Fatalf("coins = %d, want 1", coins)
	}
}

func TestBulletHitsAtMostOneEnemy(t *testing.T) {
	g := newTestGame(t, economy.Defaults())
	g.Start()
	s := g.state
	s.Player = farPlayer()
	s.Enemies = []object.Enemy{{X: 100, Y: 100}, {X: 101, Y: 101}, {X: 300, Y: 100}}
	s.Bullets = []object.Bullet{{X: 100, Y: 110}}

	g.Tick()

	if len(s.Enemies) != 2 {
		t.Fatalf("enemies = %d, want 2 survivors", len(s.Enemies))
	}
	if s.Enemies[0].X != 101 || s.Enemies[1].X != 300 {
		t.Fatalf("wrong enemy removed: %+v", s.Enemies)
	}
	if s.Score != config.ScoreEnemyKill+config.ScorePerTick {
		t.Fatalf("score = %d", s.Score)
	}
}

func TestBulletSpentOnEnemySparesBoss(t *testing.T) {
	g := newTestGame(t, economy.Defaults())
	g.Start()
	s := g.state
	s.Player = farPlayer()
	s.Boss = object.NewBoss(150, 20, 100)
	s.Enemies = []object.Enemy{{X: 150, Y: 25}}
	s.Bullets = []object.Bullet{{X: 150, Y: 35}}

	g.Tick()

	if s.Boss.HP != 100 {
		t.Fatalf("boss hp = %d, want 100", s.Boss.HP)
	}
	if len(s.Enemies) != 0 {
		t.Fatalf("enemy survived")
	}
}

func TestSeveralBulletsHitBossInOneTick(t *testing.T) {
	g := newTestGame(t, economy.SaveData{Damage: 9, FireRate: 1})
	g.Start()
	s := g.state
	s.Player = farPlayer()
	s.Boss = object.NewBoss(150, 20, 100)
	s.Bullets = []object.Bullet{{X: 140, Y: 30}, {X: 150, Y: 30}, {X: 160, Y: 30}}

	g.Tick()

	if s.Boss.HP != 100-3*9 {
		t.Fatalf("boss hp = %d, want %d", s.Boss.HP, 100-3*9)
	}
	if len(s.Bullets) != 0 {
		t.Fatalf("bullets = %d, want 0", len(s.Bullets))
	}
	if len(s.Particles) != 3*config.BurstSize {
		t.Fatalf("particles = %d", len(s.Particles))
	}
}

func TestPlayerLosesLifePerEnemy(t *testing.T) {
	g := newTestGame(t, economy.Defaults())
	g.Start()
	s := g.state
	s.Player = object.NewPlayer(200, 300, 1)
	s.Enemies = []object.Enemy{{X: 200, Y: 300}, {X: 205, Y: 295}, {X: 150, Y: 300}}

	g.Tick()

	if s.Lives != 1 {
		t.Fatalf("lives = %d, want 1", s.Lives)
	}
	if len(s.Enemies) != 1 || s.Enemies[0].X != 150 {
		t.Fatalf("enemies = %+v, want only the distant one", s.Enemies)
	}
	if len(s.Particles) != 0 {
		t.Fatalf("player hits should not burst")
	}
}

func TestTickDoesNotWaitForSaves(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	release := make(chan struct{})

	store.EXPECT().Load(gomock.Any()).Return(economy.Defaults(), nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, economy.SaveData) error {
		<-release
		return nil
	}).MinTimes(1).MaxTimes(2)

	eco := economy.New(context.Background(), store, nil)
	t.Cleanup(func() {
		close(release)
		eco.Close(context.Background())
	})

	g := NewGame(eco, Options{Rand: rand.New(rand.NewSource(1))})
	g.Start()
	s := g.state
	s.Player = farPlayer()
	for _, x := range []float64{50, 150, 250} {
		s.Enemies = append(s.Enemies, object.Enemy{X: x, Y: 100})
		s.Bullets = append(s.Bullets, object.Bullet{X: x, Y: 110})
	}

	start := time.Now()
	g.Tick()
	if elapsed := time.Since(start); elapsed > config.TickInterval {
		t.Fatalf("tick with three kills took %v while saves were blocked", elapsed)
	}
	if len(s.Enemies) != 0 {
		t.Fatalf("enemies = %d, want all three killed", len(s.Enemies))
	}
	if coins := eco.Data().Coins; coins != 3 {
		t.Fatalf("coins = %d, want 3", coins)
	}
}
