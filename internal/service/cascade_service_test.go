package service

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cuaderno/internal/model"
	"cuaderno/internal/store"
)

func seedFarm(s interface{ Seed(string, ...store.Row) }) {
	s.Seed(model.TableParcels,
		store.Row{"id": "p-1", "nombre": "Olivar", "superficie": 3.0},
		store.Row{"id": "p-2", "nombre": "Viña", "superficie": 1.0},
	)
	s.Seed(model.TableCrops,
		store.Row{"id": "c-1", "parcela_id": "p-1", "nombre_cultivo": "Picual"},
		store.Row{"id": "c-2", "parcela_id": "p-1", "nombre_cultivo": "Arbequina"},
		store.Row{"id": "c-3", "parcela_id": "p-2", "nombre_cultivo": "Tempranillo"},
	)
	s.Seed(model.TableTasks,
		store.Row{"id": "t-1", "parcela_id": "p-1", "cultivo_id": nil, "fecha_programada": "2024-01-10", "descripcion_tarea": "Arado", "estado": "pendiente"},
		store.Row{"id": "t-2", "parcela_id": nil, "cultivo_id": "c-1", "fecha_programada": "2024-01-11", "descripcion_tarea": "Poda", "estado": "pendiente"},
		store.Row{"id": "t-3", "parcela_id": "p-2", "cultivo_id": "c-2", "fecha_programada": "2024-01-12", "descripcion_tarea": "Riego", "estado": "pendiente"},
		store.Row{"id": "t-4", "parcela_id": "p-2", "cultivo_id": nil, "fecha_programada": "2024-01-13", "descripcion_tarea": "Abonado", "estado": "pendiente"},
		store.Row{"id": "t-5", "parcela_id": nil, "cultivo_id": "c-3", "fecha_programada": "2024-01-14", "descripcion_tarea": "Vendimia", "estado": "pendiente"},
	)
}

func taskIDs(tasks []model.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func rowIDsOf(rows []store.Row) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r["id"].(string))
	}
	return ids
}

func TestDeleteParcelCascades(t *testing.T) {
	s := store.NewMemoryStore()
	seedFarm(s)
	env := newTestEnv(s, false)
	ctx := context.Background()
	require.NoError(t, env.loader.Load(ctx))

	require.NoError(t, env.cascade.DeleteParcel(ctx, "p-1", true))

	assert.ElementsMatch(t, []string{"p-2"}, rowIDsOf(s.Rows(model.TableParcels)))
	assert.ElementsMatch(t, []string{"c-3"}, rowIDsOf(s.Rows(model.TableCrops)))
	assert.ElementsMatch(t, []string{"t-4", "t-5"}, rowIDsOf(s.Rows(model.TableTasks)))

	_, ok := env.state.Parcels.Get("p-1")
	assert.False(t, ok)
	assert.Equal(t, 1, env.state.Crops.Len())
	assert.ElementsMatch(t, []string{"t-4", "t-5"}, taskIDs(env.state.Tasks.All()))

	assert.Contains(t, env.notifier.all(), recordedChange{model.TableParcels, ActionDeleted, "p-1"})
}

func TestDeleteParcelStepOrder(t *testing.T) {
	s := store.NewMemoryStore()
	seedFarm(s)
	env := newTestEnv(s, false)
	ctx := context.Background()
	require.NoError(t, env.loader.Load(ctx))
	before := len(s.Calls())

	require.NoError(t, env.cascade.DeleteParcel(ctx, "p-1", true))

	var steps []string
	for _, c := range s.Calls()[before:] {
		steps = append(steps, c.Method+" "+c.Table+" "+c.Filters[0].Column)
	}
	assert.Equal(t, []string{
		"Select cultivos parcela_id",
		"Delete trabajos cultivo_id",
		"Delete trabajos parcela_id",
		"Delete cultivos parcela_id",
		"Delete parcelas id",
	}, steps)
}

func TestDeleteParcelWithoutCropsSkipsCropTaskStep(t *testing.T) {
	s := store.NewMemoryStore()
	s.Seed(model.TableParcels, store.Row{"id": "p-9", "nombre": "Erial"})
	env := newTestEnv(s, false)
	ctx := context.Background()
	require.NoError(t, env.loader.Load(ctx))
	before := len(s.Calls())

	require.NoError(t, env.cascade.DeleteParcel(ctx, "p-9", true))

	for _, c := range s.Calls()[before:] {
		if c.Method == "Delete" && c.Table == model.TableTasks {
			assert.NotEqual(t, model.ColumnCropID, c.Filters[0].Column)
		}
	}
	assert.Empty(t, s.Rows(model.TableParcels))
}

func TestDeleteCropCascades(t *testing.T) {
	s := store.NewMemoryStore()
	seedFarm(s)
	env := newTestEnv(s, false)
	ctx := context.Background()
	require.NoError(t, env.loader.Load(ctx))

	require.NoError(t, env.cascade.DeleteCrop(ctx, "c-2", true))

	assert.ElementsMatch(t, []string{"c-1", "c-3"}, rowIDsOf(s.Rows(model.TableCrops)))
	assert.ElementsMatch(t, []string{"t-1", "t-2", "t-4", "t-5"}, rowIDsOf(s.Rows(model.TableTasks)))
	for _, task := range env.state.Tasks.All() {
		if task.CropID != nil {
			assert.NotEqual(t, "c-2", *task.CropID)
		}
	}
	assert.Equal(t, 4, env.state.Tasks.Len())
}

func TestCascadeRequiresConfirmation(t *testing.T) {
	s := store.NewMemoryStore()
	seedFarm(s)
	env := newTestEnv(s, false)
	ctx := context.Background()
	require.NoError(t, env.loader.Load(ctx))
	before := len(s.Calls())

	assert.ErrorIs(t, env.cascade.DeleteParcel(ctx, "p-1", false), ErrConfirmationRequired)
	assert.ErrorIs(t, env.cascade.DeleteCrop(ctx, "c-1", false), ErrConfirmationRequired)
	assert.Len(t, s.Calls(), before)
}

func TestCascadeUnknownID(t *testing.T) {
	env := newTestEnv(store.NewMemoryStore(), false)
	assert.ErrorIs(t, env.cascade.DeleteParcel(context.Background(), "nope", true), ErrNotFound)
	assert.ErrorIs(t, env.cascade.DeleteCrop(context.Background(), "nope", true), ErrNotFound)
}

func TestDeleteParcelAbortsOnFailedStep(t *testing.T) {
	s := store.NewMemoryStore()
	seedFarm(s)
	env := newTestEnv(s, false)
	ctx := context.Background()
	require.NoError(t, env.loader.Load(ctx))
	boom := errors.New("permission denied for table cultivos")
	s.FailOn("Delete", model.TableCrops, boom)

	err := env.cascade.DeleteParcel(ctx, "p-1", true)
	require.ErrorIs(t, err, boom)

	// earlier steps stay applied, later ones never ran
	assert.ElementsMatch(t, []string{"t-4", "t-5"}, rowIDsOf(s.Rows(model.TableTasks)))
	assert.Len(t, s.Rows(model.TableCrops), 3)
	assert.Len(t, s.Rows(model.TableParcels), 2)

	_, ok := env.state.Parcels.Get("p-1")
	assert.True(t, ok)
	assert.Equal(t, 3, env.state.Crops.Len())
	assert.Equal(t, 5, env.state.Tasks.Len())
}

// parcelDeleteFails lets every statement through except deletes on parcelas.
type parcelDeleteFails struct {
	*store.GormStore
}

func (s parcelDeleteFails) Delete(ctx context.Context, table string, filters ...store.Filter) error {
	if table == model.TableParcels {
		return errors.New("parcel is locked")
	}
	return s.GormStore.Delete(ctx, table, filters...)
}

func newSQLiteStore(t *testing.T) *store.GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	return store.NewGormStore(db)
}

func seedSQLite(t *testing.T, s *store.GormStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	seedFarm(mem)
	ctx := context.Background()
	for _, table := range []string{model.TableParcels, model.TableCrops, model.TableTasks} {
		_, err := s.Insert(ctx, table, model.ColumnID, mem.Rows(table))
		require.NoError(t, err)
	}
}

func TestAtomicCascadeRollsBack(t *testing.T) {
	gs := newSQLiteStore(t)
	seedSQLite(t, gs)
	s := parcelDeleteFails{gs}
	env := newTestEnv(s, true)
	ctx := context.Background()
	require.NoError(t, env.loader.Load(ctx))

	err := env.cascade.DeleteParcel(ctx, "p-1", true)
	require.Error(t, err)

	n, err := gs.Count(ctx, model.TableTasks)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	n, err = gs.Count(ctx, model.TableCrops)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, 5, env.state.Tasks.Len())
}

func TestAtomicCascadeCommits(t *testing.T) {
	gs := newSQLiteStore(t)
	seedSQLite(t, gs)
	env := newTestEnv(gs, true)
	ctx := context.Background()
	require.NoError(t, env.loader.Load(ctx))

	require.NoError(t, env.cascade.DeleteParcel(ctx, "p-1", true))

	n, err := gs.Count(ctx, model.TableTasks)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	n, err = gs.Count(ctx, model.TableCrops, store.Eq(model.ColumnParcelID, "p-1"))
	require.NoError(t, err)
	assert.Zero(t, n)
	_, ok := env.state.Parcels.Get("p-1")
	assert.False(t, ok)
	assert.ElementsMatch(t, []string{"t-4", "t-5"}, taskIDs(env.state.Tasks.All()))
}
