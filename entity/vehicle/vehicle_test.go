package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urban-sims/microtraffic/entity"
)

func TestFirstMoveGreenLight(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	placeLight(ctx, entity.Position{X: 1, Y: 6}, entity.LightGreen)
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 7}, entity.DirSouth, entity.Position{X: 1, Y: 2})

	v.step(ctx)

	assert.Equal(t, entity.Position{X: 1, Y: 6}, v.pos)
	prev, ok := v.PreviousPosition()
	require.True(t, ok)
	assert.Equal(t, entity.Position{X: 1, Y: 7}, prev)
	assert.Equal(t, entity.DirSouth, v.Heading())
	assert.Equal(t, 1, v.CompletedSteps())
	assert.Equal(t, 0, v.WaitingTicks())
	assert.Equal(t, 100, v.Happiness())
	assert.True(t, ctx.g.HasMobileAt(entity.Position{X: 1, Y: 6}, nil))
	assert.False(t, ctx.g.HasMobileAt(entity.Position{X: 1, Y: 7}, nil))
}

func TestRedLightBlocks(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	placeLight(ctx, entity.Position{X: 1, Y: 6}, entity.LightRed)
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 7}, entity.DirSouth, entity.Position{X: 1, Y: 2})

	v.step(ctx)

	assert.Equal(t, entity.Position{X: 1, Y: 7}, v.pos)
	assert.Equal(t, 1, v.WaitingTicks())
	assert.Equal(t, 95, v.Happiness())
	assert.Equal(t, entity.VehicleCalm, v.State())
	_, ok := v.PreviousPosition()
	assert.False(t, ok)
}

func TestYellowLightBlocks(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	placeLight(ctx, entity.Position{X: 1, Y: 6}, entity.LightYellow)
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 7}, entity.DirSouth, entity.Position{X: 1, Y: 2})

	v.step(ctx)

	assert.Equal(t, entity.Position{X: 1, Y: 7}, v.pos)
	assert.Equal(t, 1, v.WaitingTicks())
}

func TestAngryIgnoresLights(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	placeLight(ctx, entity.Position{X: 1, Y: 6}, entity.LightRed)
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 7}, entity.DirSouth, entity.Position{X: 1, Y: 2})
	v.happiness = 20
	v.state = entity.VehicleAngry

	v.step(ctx)

	assert.Equal(t, entity.Position{X: 1, Y: 6}, v.pos)
	// 移动恢复幸福度但未过阈值，保持愤怒
	assert.Equal(t, 22, v.Happiness())
	assert.Equal(t, entity.VehicleAngry, v.State())
}

func TestAngryRespectsOccupancy(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	blocker := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 6}, entity.DirSouth, entity.Position{X: 1, Y: 2})
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 7}, entity.DirSouth, entity.Position{X: 1, Y: 2})
	v.happiness = 20
	v.state = entity.VehicleAngry

	v.step(ctx)

	assert.Equal(t, entity.Position{X: 1, Y: 7}, v.pos)
	assert.Equal(t, 1, v.WaitingTicks())
	assert.Equal(t, entity.Position{X: 1, Y: 6}, blocker.pos)
}

func TestAngerFlipsBackToCalm(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 7}, entity.DirSouth, entity.Position{X: 1, Y: 2})
	v.happiness = 29
	v.state = entity.VehicleAngry

	v.step(ctx)

	// 移动恢复2点，达到阈值30，转回平静
	assert.Equal(t, 31, v.Happiness())
	assert.Equal(t, entity.VehicleCalm, v.State())
}

func TestHappinessFloorsAtZero(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 6}, entity.DirSouth, entity.Position{X: 1, Y: 2})
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 7}, entity.DirSouth, entity.Position{X: 1, Y: 2})

	for i := 0; i < 25; i++ {
		v.step(ctx)
	}

	assert.Equal(t, entity.Position{X: 1, Y: 7}, v.pos)
	assert.Equal(t, 25, v.WaitingTicks())
	assert.Equal(t, 0, v.Happiness())
	assert.Equal(t, entity.VehicleAngry, v.State())
}

func TestArrivalRemovesSameTick(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	dest := entity.Position{X: 1, Y: 2}
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 3}, entity.DirSouth, dest)

	v.step(ctx)

	assert.False(t, v.IsActive())
	assert.Equal(t, dest, v.pos)
	assert.False(t, ctx.g.HasMobileAt(dest, nil))
	assert.Equal(t, 0, ctx.vm.VehicleCount())
	assert.Equal(t, 1, ctx.vm.Totals().Completed)
}

func TestDestinationAdjacentIsSoleCandidate(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	// 目的地被占用时为唯一候选，本拍等待
	dest := entity.Position{X: 1, Y: 2}
	ctx.vm.NewVehicleAt(ctx, dest, entity.DirSouth, entity.Position{X: 1, Y: 1})
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 3}, entity.DirSouth, dest)

	v.step(ctx)

	assert.Equal(t, entity.Position{X: 1, Y: 3}, v.pos)
	assert.Equal(t, 1, v.WaitingTicks())
}

func TestJunctionOverrideForced(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	// (15,10)强制进入连接段(15,11)，随后依目的地在(14,11)/(15,12)间择近
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 15, Y: 10}, entity.DirNorth, entity.Position{X: 1, Y: 2})
	v.steps = 1 // 非首次移动

	v.step(ctx)
	assert.Equal(t, entity.Position{X: 15, Y: 11}, v.pos)

	v.step(ctx)
	// 目的地在西南方，(14,11)严格更近
	assert.Equal(t, entity.Position{X: 14, Y: 11}, v.pos)
}

func TestConnectorNeverFallbackTarget(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	// (16,11)直行格(15,11)是连接段不属西行族，回退候选也不含它，
	// 唯一合法候选是(16,10)
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 16, Y: 11}, entity.DirWest, entity.Position{X: 4, Y: 3})
	v.steps = 1

	v.step(ctx)

	assert.Equal(t, entity.Position{X: 16, Y: 10}, v.pos)
}

func TestFallbackExcludesLaneReversal(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	// (2,11)西行族尽头，回退候选为(1,11)与(2,10)，排除逆向的(3,11)
	for i := 0; i < 20; i++ {
		v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 2, Y: 11}, entity.DirWest, entity.Position{X: 1, Y: 2})
		v.steps = 1
		v.step(ctx)
		assert.Contains(t, []entity.Position{{X: 1, Y: 11}, {X: 2, Y: 10}}, v.pos)
		ctx.g.Remove(v)
	}
}

func TestSpawnCellDeparture(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	// 出生点(2,14)在街区内部无车道方向，首拍经回退规则驶上相邻车道
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 2, Y: 14}, entity.DirEast, entity.Position{X: 20, Y: 4})

	v.step(ctx)

	assert.NotEqual(t, entity.Position{X: 2, Y: 14}, v.pos)
	assert.True(t, ctx.net.IsRoad(v.pos), "%v", v.pos)
	assert.Equal(t, 1, v.CompletedSteps())
}
