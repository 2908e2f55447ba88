package storage

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/kv"
	"github.com/julianstephens/daylog/internal/models"
)

func setupTestStores(t *testing.T) (*kv.MemoryBackend, *DayLogStore, *GoalsStore) {
	t.Helper()
	b := kv.NewMemoryBackend()
	logs := NewDayLogStore(b)
	goals := NewGoalsStore(b)
	if err := logs.Load(); err != nil {
		t.Fatalf("failed to load day logs: %v", err)
	}
	if err := goals.Load(); err != nil {
		t.Fatalf("failed to load goals: %v", err)
	}
	return b, logs, goals
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestDayLogStoreUpdateAndReload(t *testing.T) {
	b, store, _ := setupTestStores(t)

	key := daykey.DayKey("2024-03-05")
	todos := []models.Todo{{ID: 1, Text: " buy milk ", Done: false}, {ID: 2, Text: "   "}}
	expenses := []models.ExpenseItem{
		{ID: 3, Amount: 500, Note: "lunch", CreatedAt: time.Date(2024, 3, 5, 20, 0, 0, 0, time.FixedZone("JST", 9*3600))},
		{ID: 4, Amount: 200, CreatedAt: time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)},
	}
	cleaning := models.CleaningState{models.AreaKitchen: true, "garage": true}

	got, err := store.Update(key, models.DayPatch{
		WakeTime:  strPtr("6:30"),
		SleepTime: strPtr("25:00"),
		Steps:     intPtr(8000),
		Weight:    floatPtr(61.5),
		Memo:      strPtr("  good day "),
		Todos:     &todos,
		Expenses:  &expenses,
		Cleaning:  &cleaning,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if got.WakeTime != "06:30" {
		t.Errorf("expected wake 06:30, got %q", got.WakeTime)
	}
	if got.SleepTime != "" {
		t.Errorf("invalid sleep time should be dropped, got %q", got.SleepTime)
	}
	if got.Memo != "good day" {
		t.Errorf("expected trimmed memo, got %q", got.Memo)
	}
	if len(got.Todos) != 1 || got.Todos[0].Text != "buy milk" {
		t.Errorf("unexpected todos: %+v", got.Todos)
	}
	if len(got.Expenses) != 2 || got.Expenses[0].ID != 4 {
		t.Errorf("expenses should be sorted by creation time: %+v", got.Expenses)
	}
	if _, ok := got.Cleaning["garage"]; ok {
		t.Error("unknown cleaning area should be dropped")
	}
	if b.Writes() != 1 {
		t.Errorf("expected 1 write, got %d", b.Writes())
	}

	reloaded := NewDayLogStore(b)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reflect.DeepEqual(reloaded.Get(key), got) {
		t.Errorf("reloaded log differs:\n got  %+v\n want %+v", reloaded.Get(key), got)
	}
}

func TestDayLogStoreGetMissing(t *testing.T) {
	_, store, _ := setupTestStores(t)

	l := store.Get("2024-01-01")
	if !l.IsEmpty() {
		t.Errorf("expected empty log, got %+v", l)
	}
	if store.Has("2024-01-01") {
		t.Error("Get must not create an entry")
	}
}

func TestDayLogStoreGetReturnsCopy(t *testing.T) {
	_, store, _ := setupTestStores(t)
	key := daykey.DayKey("2024-01-01")
	todos := []models.Todo{{ID: 1, Text: "a"}}
	if _, err := store.Update(key, models.DayPatch{Todos: &todos}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	l := store.Get(key)
	l.Todos[0].Done = true
	if store.Get(key).Todos[0].Done {
		t.Error("mutating a returned log must not change the store")
	}
}

func TestDayLogStoreClearField(t *testing.T) {
	_, store, _ := setupTestStores(t)
	key := daykey.DayKey("2024-01-01")

	if _, err := store.Update(key, models.DayPatch{Steps: intPtr(100), Memo: strPtr("x")}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := store.Update(key, models.DayPatch{Clear: []models.Field{models.FieldSteps}})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Steps != nil {
		t.Error("steps should be cleared")
	}
	if got.Memo != "x" {
		t.Error("memo should be untouched")
	}
}

func TestDayLogStoreRejectsInvalidKey(t *testing.T) {
	b, store, _ := setupTestStores(t)

	for _, k := range []daykey.DayKey{"2024-1-5", "2024-02-30", "", "today"} {
		if _, err := store.Update(k, models.DayPatch{Memo: strPtr("x")}); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Update(%q): expected ErrInvalidKey, got %v", k, err)
		}
	}
	if store.Len() != 0 || b.Writes() != 0 {
		t.Error("invalid keys must not change state")
	}
}

func TestDayLogStoreInsertionOrder(t *testing.T) {
	b, store, _ := setupTestStores(t)

	keys := []daykey.DayKey{"2024-03-10", "2024-01-01", "2024-02-15"}
	for _, k := range keys {
		if _, err := store.Update(k, models.DayPatch{Steps: intPtr(1)}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}
	// updating an existing day keeps its position
	if _, err := store.Update("2024-03-10", models.DayPatch{Steps: intPtr(2)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if !reflect.DeepEqual(store.Keys(), keys) {
		t.Errorf("expected %v, got %v", keys, store.Keys())
	}

	reloaded := NewDayLogStore(b)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reflect.DeepEqual(reloaded.Keys(), keys) {
		t.Errorf("order lost on reload: %v", reloaded.Keys())
	}
	entries := reloaded.Entries()
	if entries[0].Key != "2024-03-10" || entries[0].Log.StepsOrZero() != 2 {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}

func TestDayLogStoreUpdateManySingleWrite(t *testing.T) {
	b, store, _ := setupTestStores(t)

	err := store.UpdateMany([]Change{
		{Key: "2024-01-01", Patch: models.DayPatch{Steps: intPtr(1)}},
		{Key: "2024-01-02", Patch: models.DayPatch{Steps: intPtr(2)}},
	})
	if err != nil {
		t.Fatalf("UpdateMany failed: %v", err)
	}
	if b.Writes() != 1 {
		t.Errorf("expected exactly 1 write, got %d", b.Writes())
	}

	if err := store.UpdateMany(nil); err != nil {
		t.Fatalf("empty UpdateMany failed: %v", err)
	}
	if b.Writes() != 1 {
		t.Error("empty UpdateMany must not write")
	}

	err = store.UpdateMany([]Change{
		{Key: "2024-01-03", Patch: models.DayPatch{Steps: intPtr(3)}},
		{Key: "bad", Patch: models.DayPatch{Steps: intPtr(4)}},
	})
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
	if store.Has("2024-01-03") {
		t.Error("a rejected batch must not be partially applied")
	}
}

func TestDayLogStoreWriteFailureKeepsMemory(t *testing.T) {
	b, store, _ := setupTestStores(t)
	b.FailWrites(errors.New("quota exceeded"))

	got, err := store.Update("2024-01-01", models.DayPatch{Memo: strPtr("kept")})
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("expected ErrPersist, got %v", err)
	}
	if got.Memo != "kept" || store.Get("2024-01-01").Memo != "kept" {
		t.Error("in-memory change should survive a failed write")
	}

	b.FailWrites(nil)
	if _, err := store.Update("2024-01-02", models.DayPatch{Memo: strPtr("next")}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	reloaded := NewDayLogStore(b)
	_ = reloaded.Load()
	if reloaded.Get("2024-01-01").Memo != "kept" {
		t.Error("the next successful write should carry the earlier change")
	}
}

func TestDayLogStoreCorruptSnapshot(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{{{"},
		{"array", `[1,2]`},
		{"wrong field type", `{"2024-01-01":{"steps":"many"}}`},
		{"trailing data", `{"2024-01-01":{}} {}`},
		{"null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := kv.NewMemoryBackend()
			b.Set("day_logs", tt.raw)
			store := NewDayLogStore(b)

			if err := store.Load(); !errors.Is(err, ErrCorruptSnapshot) {
				t.Fatalf("expected ErrCorruptSnapshot, got %v", err)
			}
			if store.Len() != 0 {
				t.Error("corrupt snapshot should load as empty")
			}
			// still usable afterwards
			if _, err := store.Update("2024-01-01", models.DayPatch{Memo: strPtr("ok")}); err != nil {
				t.Errorf("Update after corrupt load failed: %v", err)
			}
		})
	}
}

func TestDayLogStoreLoadNormalizes(t *testing.T) {
	b := kv.NewMemoryBackend()
	b.Set("day_logs", `{"2024-01-02":{"wake_time":"7:05","steps":-3,"weight":0,"todos":[{"id":1,"text":""}]},"2024-01-01":{"memo":" hi "}}`)

	store := NewDayLogStore(b)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	l := store.Get("2024-01-02")
	if l.WakeTime != "07:05" || l.Steps != nil || l.Weight != nil || l.Todos != nil {
		t.Errorf("unexpected normalized log: %+v", l)
	}
	if store.Get("2024-01-01").Memo != "hi" {
		t.Error("memo should be trimmed on load")
	}
	if keys := store.Keys(); keys[0] != "2024-01-02" {
		t.Errorf("document order should be kept, got %v", keys)
	}
}

func TestDayLogStoreDuplicateKeysInDocument(t *testing.T) {
	b := kv.NewMemoryBackend()
	b.Set("day_logs", `{"2024-01-01":{"memo":"a"},"2024-01-02":{},"2024-01-01":{"memo":"b"}}`)

	store := NewDayLogStore(b)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 days, got %d", store.Len())
	}
	if store.Keys()[0] != "2024-01-01" || store.Get("2024-01-01").Memo != "b" {
		t.Error("duplicate key should keep first position and last value")
	}
}

func TestDayLogStoreUnavailableBackend(t *testing.T) {
	// a file backend that was never opened cannot be read
	store := NewDayLogStore(kv.NewFileBackend(t.TempDir()))
	if err := store.Load(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestDayLogStoreSQLiteRoundTrip(t *testing.T) {
	b := kv.NewSQLiteBackend(filepath.Join(t.TempDir(), "daylog.db"))
	if err := b.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer b.Close()

	store := NewDayLogStore(b)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := store.Update("2024-05-01", models.DayPatch{StudyMin: intPtr(45)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	reloaded := NewDayLogStore(b)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Get("2024-05-01").StudyOrZero() != 45 {
		t.Error("expected study minutes to survive reload")
	}
}

func TestSnapshotIsOrderedJSON(t *testing.T) {
	_, store, _ := setupTestStores(t)
	_, _ = store.Update("2024-02-01", models.DayPatch{Steps: intPtr(1)})
	_, _ = store.Update("2024-01-01", models.DayPatch{Steps: intPtr(2)})

	data, err := store.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	s := string(data)
	if strings.Index(s, "2024-02-01") > strings.Index(s, "2024-01-01") {
		t.Errorf("snapshot should follow insertion order: %s", s)
	}
}

func TestGoalsStore(t *testing.T) {
	b, _, goals := setupTestStores(t)

	month := daykey.MonthKey("2024-03")
	if !goals.NeedsSetup(month) {
		t.Error("new month should need setup")
	}
	if _, ok := goals.Get(month); ok {
		t.Error("expected no goals for new month")
	}

	got, err := goals.Set(month, models.MonthGoals{StepsGoal: 8000, StudyGoal: 0})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got.StepsGoal != 8000 || got.StudyGoal != 120 {
		t.Errorf("unexpected coerced goals: %+v", got)
	}
	if goals.NeedsSetup(month) {
		t.Error("month should no longer need setup")
	}

	reloaded := NewGoalsStore(b)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if g, ok := reloaded.Get(month); !ok || g != got {
		t.Errorf("expected %+v after reload, got %+v", got, g)
	}
	if len(reloaded.Months()) != 1 {
		t.Errorf("expected 1 month, got %d", len(reloaded.Months()))
	}
}

func TestGoalsStoreInvalidMonth(t *testing.T) {
	_, _, goals := setupTestStores(t)
	if _, err := goals.Set("2024-3", models.DefaultGoals()); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestGoalsStoreCorruptAndCoerce(t *testing.T) {
	b := kv.NewMemoryBackend()
	b.Set("month_goals", "oops")
	goals := NewGoalsStore(b)
	if err := goals.Load(); !errors.Is(err, ErrCorruptSnapshot) {
		t.Errorf("expected ErrCorruptSnapshot, got %v", err)
	}

	b.Set("month_goals", `{"2024-01":{"steps_goal":-5,"study_goal":30}}`)
	if err := goals.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	g, _ := goals.Get("2024-01")
	if g.StepsGoal != 10000 || g.StudyGoal != 30 {
		t.Errorf("stored goals should be coerced on load, got %+v", g)
	}
}

func TestGoalsStoreWriteFailure(t *testing.T) {
	b, _, goals := setupTestStores(t)
	b.FailWrites(errors.New("disk full"))

	_, err := goals.Set("2024-04", models.MonthGoals{StepsGoal: 5000, StudyGoal: 60})
	if !errors.Is(err, ErrPersist) {
		t.Errorf("expected ErrPersist, got %v", err)
	}
	if goals.NeedsSetup("2024-04") {
		t.Error("goals should be kept in memory after a failed write")
	}
}
