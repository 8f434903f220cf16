package economy_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"pgregory.net/rapid"

	"github.com/tomz197/blaster/internal/economy"
	"github.com/tomz197/blaster/internal/economy/mocks"
	"github.com/tomz197/blaster/internal/storage"
)

func newEconomy(t *testing.T, data economy.SaveData) (*economy.Economy, *economy.KVStore) {
	t.Helper()
	store := economy.NewKVStore(storage.NewMemoryKV(), "")
	if err := store.Save(context.Background(), data); err != nil {
		t.Fatalf("seed save: %v", err)
	}
	eco := economy.New(context.Background(), store, nil)
	t.Cleanup(func() { closeEconomy(t, eco) })
	return eco, store
}

// closeEconomy flushes the last record and stops the writer.
func closeEconomy(t *testing.T, eco *economy.Economy) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := eco.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

// savedRecords records every Save a mock store receives.
type savedRecords struct {
	mu   sync.Mutex
	list []economy.SaveData
}

func (r *savedRecords) save(_ context.Context, data economy.SaveData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, data)
	return nil
}

func (r *savedRecords) last() (economy.SaveData, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.list) == 0 {
		return economy.SaveData{}, false
	}
	return r.list[len(r.list)-1], true
}

func TestPurchaseDamage(t *testing.T) {
	eco, store := newEconomy(t, economy.SaveData{Coins: 10, Damage: 5, FireRate: 1})

	if !eco.Purchase(economy.UpgradeDamage) {
		t.Fatalf("purchase with 10 coins should succeed")
	}
	want := economy.SaveData{Coins: 0, Damage: 7, FireRate: 1}
	if got := eco.Data(); got != want {
		t.Fatalf("after purchase = %+v, want %+v", got, want)
	}

	if eco.Purchase(economy.UpgradeDamage) {
		t.Fatalf("purchase with 0 coins should fail")
	}
	if got := eco.Data(); got != want {
		t.Fatalf("failed purchase changed state: %+v", got)
	}

	closeEconomy(t, eco)
	saved, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if saved != want {
		t.Fatalf("persisted = %+v, want %+v", saved, want)
	}
}

func TestPurchaseFireRate(t *testing.T) {
	eco, _ := newEconomy(t, economy.SaveData{Coins: 25, Damage: 5, FireRate: 1})

	if !eco.Purchase(economy.UpgradeFireRate) {
		t.Fatalf("purchase should succeed")
	}
	got := eco.Data()
	if got.FireRate != 2 || got.Damage != 5 || got.Coins != 15 {
		t.Fatalf("after fire rate purchase = %+v", got)
	}
}

func TestPurchaseUnknownUpgradeKeepsCoins(t *testing.T) {
	eco, _ := newEconomy(t, economy.SaveData{Coins: 10, Damage: 5, FireRate: 1})
	if eco.Purchase(economy.Upgrade("shield")) {
		t.Fatalf("unknown upgrade should not be purchasable")
	}
	if eco.Data().Coins != 10 {
		t.Fatalf("coins = %d, want 10", eco.Data().Coins)
	}
}

func TestRecordScore(t *testing.T) {
	eco, _ := newEconomy(t, economy.SaveData{HighScore: 300, Damage: 5, FireRate: 1})
	if eco.RecordScore(200) {
		t.Fatalf("lower score should not replace the high score")
	}
	if eco.RecordScore(300) {
		t.Fatalf("equal score should not replace the high score")
	}
	if !eco.RecordScore(301) {
		t.Fatalf("higher score should replace the high score")
	}
	if eco.Data().HighScore != 301 {
		t.Fatalf("high score = %d, want 301", eco.Data().HighScore)
	}
}

func TestSavesLatestRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	var saved savedRecords

	store.EXPECT().Load(gomock.Any()).Return(economy.SaveData{Coins: 9, Damage: 5, FireRate: 1}, nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(saved.save).MinTimes(1).MaxTimes(3)

	eco := economy.New(context.Background(), store, nil)
	eco.AddCoins(1)
	eco.Purchase(economy.UpgradeFireRate)
	eco.RecordScore(42)
	closeEconomy(t, eco)

	want := economy.SaveData{HighScore: 42, Coins: 0, Damage: 5, FireRate: 2}
	if got, ok := saved.last(); !ok || got != want {
		t.Fatalf("last save = %+v (%v), want %+v", got, ok, want)
	}
}

func TestNoSaveWithoutChange(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	store.EXPECT().Load(gomock.Any()).Return(economy.SaveData{Coins: 3, Damage: 5, FireRate: 1}, nil)

	eco := economy.New(context.Background(), store, nil)
	eco.Purchase(economy.UpgradeFireRate) // not enough coins
	eco.AddCoins(0)
	eco.RecordScore(0)
	closeEconomy(t, eco)
}

func TestSaveFailureKeepsSessionState(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	failed := make(chan struct{})

	store.EXPECT().Load(gomock.Any()).Return(economy.SaveData{}, errors.New("disk gone"))
	gomock.InOrder(
		store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, economy.SaveData) error {
			close(failed)
			return errors.New("disk gone")
		}),
		// The next successful write carries the full record, including the
		// change whose write failed.
		store.EXPECT().Save(gomock.Any(), economy.SaveData{Coins: 2, Damage: 5, FireRate: 1}).Return(nil),
	)

	eco := economy.New(context.Background(), store, nil)
	if got := eco.Data(); got != economy.Defaults() {
		t.Fatalf("load failure should yield defaults, got %+v", got)
	}
	eco.AddCoins(1)
	<-failed
	eco.AddCoins(1)
	if eco.Data().Coins != 2 {
		t.Fatalf("coins = %d, want 2", eco.Data().Coins)
	}
	closeEconomy(t, eco)
}

func TestMutationsDoNotWaitForStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	var saved savedRecords
	release := make(chan struct{})

	store.EXPECT().Load(gomock.Any()).Return(economy.Defaults(), nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, data economy.SaveData) error {
		<-release
		return saved.save(ctx, data)
	}).MinTimes(1).MaxTimes(2)

	eco := economy.New(context.Background(), store, nil)

	start := time.Now()
	for i := 0; i < 5; i++ {
		eco.AddCoins(1)
	}
	eco.RecordScore(100)
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("mutations took %v with the store blocked", elapsed)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := eco.Close(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Close with a blocked store = %v, want DeadlineExceeded", err)
	}

	close(release)
	closeEconomy(t, eco)
	want := economy.SaveData{HighScore: 100, Coins: 5, Damage: 5, FireRate: 1}
	if got, ok := saved.last(); !ok || got != want {
		t.Fatalf("last save = %+v (%v), want %+v", got, ok, want)
	}
}

func TestKVStoreDefaultsAndCorruption(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	store := economy.NewKVStore(kv, "")

	data, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("missing save should not be an error, got %v", err)
	}
	if data != economy.Defaults() {
		t.Fatalf("missing save = %+v, want defaults", data)
	}

	if err := kv.Put(ctx, "ultimate_save", []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	data, err = store.Load(ctx)
	if !errors.Is(err, economy.ErrCorruptSave) {
		t.Fatalf("corrupt save error = %v, want ErrCorruptSave", err)
	}
	if data != economy.Defaults() {
		t.Fatalf("corrupt save = %+v, want defaults", data)
	}

	if err := kv.Put(ctx, "ultimate_save", []byte(`{"coins":4}`)); err != nil {
		t.Fatal(err)
	}
	data, err = store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := economy.SaveData{Coins: 4, Damage: 5, FireRate: 1}
	if data != want {
		t.Fatalf("partial save = %+v, want %+v", data, want)
	}
}

func TestSaveDataRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := economy.SaveData{
			HighScore: rapid.IntRange(0, 1<<40).Draw(t, "highScore"),
			Coins:     rapid.IntRange(0, 1<<20).Draw(t, "coins"),
			Damage:    rapid.IntRange(5, 1000).Draw(t, "damage"),
			FireRate:  rapid.IntRange(1, 100).Draw(t, "fireRate"),
		}
		store := economy.NewKVStore(storage.NewMemoryKV(), "k")
		if err := store.Save(context.Background(), in); err != nil {
			t.Fatalf("Save: %v", err)
		}
		out, err := store.Load(context.Background())
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if out != in {
			t.Fatalf("round trip = %+v, want %+v", out, in)
		}
	})
}

func TestUpgradesAreMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		eco := economy.New(context.Background(), economy.NewKVStore(storage.NewMemoryKV(), ""), nil)
		defer eco.Close(context.Background())
		kinds := []economy.Upgrade{economy.UpgradeDamage, economy.UpgradeFireRate, "bogus"}

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			before := eco.Data()
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				eco.AddCoins(rapid.IntRange(-3, 12).Draw(t, "coins"))
			case 1:
				kind := rapid.SampledFrom(kinds).Draw(t, "kind")
				ok := eco.Purchase(kind)
				if ok && before.Coins < 10 {
					t.Fatalf("purchase succeeded with %d coins", before.Coins)
				}
				if !ok && before.Coins >= 10 && kind != "bogus" {
					t.Fatalf("purchase of %q failed with %d coins", kind, before.Coins)
				}
			case 2:
				eco.RecordScore(rapid.IntRange(0, 5000).Draw(t, "score"))
			}
			after := eco.Data()
			if after.Coins < 0 {
				t.Fatalf("coins went negative: %d", after.Coins)
			}
			if after.Damage < before.Damage || after.FireRate < before.FireRate {
				t.Fatalf("upgrade decreased: %+v -> %+v", before, after)
			}
			if after.HighScore < before.HighScore {
				t.Fatalf("high score decreased: %d -> %d", before.HighScore, after.HighScore)
			}
		}
	})
}

func TestSanitize(t *testing.T) {
	got := economy.SaveData{HighScore: -1, Coins: -5, Damage: 0, FireRate: -2}.Sanitize()
	if got != economy.Defaults() {
		t.Fatalf("Sanitize = %+v, want defaults", got)
	}
	keep := economy.SaveData{HighScore: 10, Coins: 3, Damage: 9, FireRate: 4}
	if keep.Sanitize() != keep {
		t.Fatalf("Sanitize changed a valid record: %+v", keep.Sanitize())
	}
}

func TestParseUpgrade(t *testing.T) {
	tests := []struct {
		in   string
		want economy.Upgrade
		ok   bool
	}{
		{"damage", economy.UpgradeDamage, true},
		{"Damage", economy.UpgradeDamage, true},
		{"fireRate", economy.UpgradeFireRate, true},
		{"firerate", economy.UpgradeFireRate, true},
		{"fire-rate", economy.UpgradeFireRate, true},
		{"speed", "", false},
	}
	for _, tt := range tests {
		got, ok := economy.ParseUpgrade(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseUpgrade(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPlayerKey(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"", "ultimate_save", true},
		{"alice", "ultimate_save.alice", true},
		{"Bob-2_x", "ultimate_save.Bob-2_x", true},
		{"a/b", "", false},
		{"a_b.c", "", false},
		{"..", "", false},
		{"ünï", "", false},
		{"abcdefghijklmnopqrstuvwxyz0123456", "", false},
	}
	for _, tt := range tests {
		got, err := economy.PlayerKey(tt.name)
		if tt.ok != (err == nil) || got != tt.want {
			t.Errorf("PlayerKey(%q) = (%q, %v), want %q ok=%v", tt.name, got, err, tt.want, tt.ok)
		}
		if err != nil && !errors.Is(err, economy.ErrInvalidPlayer) {
			t.Errorf("PlayerKey(%q) error = %v, want ErrInvalidPlayer", tt.name, err)
		}
	}
}
