package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urban-sims/microtraffic/entity"
)

func TestForceSpawnToMinimum(t *testing.T) {
	c := quietConfig()
	c.Vehicle.MinCount = 5
	c.Vehicle.MaxCount = 20
	c.Vehicle.SpawnRate = 0.3
	ctx := newTestCtx(c)

	ctx.vm.Spawn(ctx)

	assert.Equal(t, 5, ctx.vm.VehicleCount())
	assert.Equal(t, 5, ctx.vm.Totals().Spawned)
	// 各车位于互不相同的出生点，目的地不等于出生点
	seen := map[entity.Position]struct{}{}
	for _, v := range ctx.vm.ActiveVehicles() {
		_, dup := seen[v.Position()]
		assert.False(t, dup, "%v", v.Position())
		seen[v.Position()] = struct{}{}
		assert.NotEqual(t, v.Position(), v.Destination())
	}
}

func TestForceSpawnStopsWhenPointsExhausted(t *testing.T) {
	c := quietConfig()
	c.Vehicle.MinCount = 30
	c.Vehicle.MaxCount = 40
	ctx := newTestCtx(c)

	ctx.vm.Spawn(ctx)

	// 只有17个出生点，强制生成到空闲点耗尽为止
	assert.Equal(t, 17, ctx.vm.VehicleCount())
}

func TestRateSpawnRespectsMaxCap(t *testing.T) {
	c := quietConfig()
	c.Vehicle.MinCount = 0
	c.Vehicle.MaxCount = 2
	c.Vehicle.SpawnRate = 1
	ctx := newTestCtx(c)

	ctx.vm.Spawn(ctx)

	assert.Equal(t, 2, ctx.vm.VehicleCount())
}

func TestRateSpawnZeroRate(t *testing.T) {
	c := quietConfig()
	c.Vehicle.MaxCount = 20
	ctx := newTestCtx(c)

	ctx.vm.Spawn(ctx)

	assert.Equal(t, 0, ctx.vm.VehicleCount())
}

func TestRateSpawnSkipsOccupiedPoints(t *testing.T) {
	c := quietConfig()
	c.Vehicle.MinCount = 0
	c.Vehicle.MaxCount = 40
	c.Vehicle.SpawnRate = 1
	ctx := newTestCtx(c)
	sps := ctx.net.SpawnPoints()
	ctx.vm.NewVehicleAt(ctx, sps[0].Position(), sps[0].Direction(), sps[1].Position())

	ctx.vm.Spawn(ctx)

	// 被占出生点跳过：17点中1个已占，新增16辆
	assert.Equal(t, 17, ctx.vm.VehicleCount())
}

func TestGetAndGetOrError(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 7}, entity.DirSouth, entity.Position{X: 1, Y: 2})

	got := ctx.vm.Get(v.ID())
	assert.Equal(t, v.ID(), got.ID())

	_, err := ctx.vm.GetOrError(v.ID() + 100)
	assert.Error(t, err)
	assert.Panics(t, func() { ctx.vm.Get(v.ID() + 100) })
}

func TestActiveVehiclesSortedByID(t *testing.T) {
	c := quietConfig()
	c.Vehicle.MinCount = 10
	c.Vehicle.MaxCount = 20
	ctx := newTestCtx(c)
	ctx.vm.Spawn(ctx)

	vehicles := ctx.vm.ActiveVehicles()
	require.Len(t, vehicles, 10)
	for i := 1; i < len(vehicles); i++ {
		assert.Less(t, vehicles[i-1].ID(), vehicles[i].ID())
	}
}

func TestUpdateStepsPendingAfterPrepare(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 7}, entity.DirSouth, entity.Position{X: 1, Y: 2})

	// 未经过准备阶段的新车不参与本拍推进
	ctx.vm.Update(ctx)
	assert.Equal(t, 0, v.CompletedSteps())

	ctx.vm.PrepareNode()
	ctx.vm.Update(ctx)
	assert.Equal(t, 1, v.CompletedSteps())
	assert.Equal(t, entity.Position{X: 1, Y: 6}, v.pos)
}
