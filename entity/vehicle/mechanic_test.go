package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urban-sims/microtraffic/entity"
)

// newMechanicAt 直接构造维修车用于白盒测试
func newMechanicAt(ctx *testCtx, pos entity.Position, heading entity.Direction, target *Vehicle) *Mechanic {
	mc := &Mechanic{
		mgr:      ctx.vm,
		id:       ctx.ids.Next(),
		pos:      pos,
		heading:  heading,
		spawnDir: heading,
		target:   target,
		active:   true,
	}
	if err := ctx.g.Place(mc, pos); err != nil {
		panic(err)
	}
	ctx.vm.mechanics[mc.id] = mc
	ctx.vm.stepMechanics.Add(mc)
	return mc
}

func breakVehicle(v *Vehicle) {
	v.broken = true
	v.state = entity.VehicleBroken
	v.happiness = 40
}

func TestMechanicJumpsOntoAdjacentTarget(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 5}, entity.DirSouth, entity.Position{X: 1, Y: 2})
	breakVehicle(v)
	mc := newMechanicAt(ctx, entity.Position{X: 1, Y: 6}, entity.DirSouth, v)

	mc.step(ctx)

	// 目标格被故障车占用仍可跳入，这是系统中唯一合法的同格重叠
	assert.Equal(t, v.pos, mc.pos)
	assert.False(t, mc.IsRepairing())
}

func TestMechanicIgnoresLights(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 2}, entity.DirSouth, entity.Position{X: 1, Y: 1})
	breakVehicle(v)
	placeLight(ctx, entity.Position{X: 1, Y: 6}, entity.LightRed)
	mc := newMechanicAt(ctx, entity.Position{X: 1, Y: 7}, entity.DirSouth, v)

	mc.step(ctx)

	assert.Equal(t, entity.Position{X: 1, Y: 6}, mc.pos)
}

func TestMechanicRepairTiming(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 5}, entity.DirSouth, entity.Position{X: 1, Y: 2})
	breakVehicle(v)
	mc := newMechanicAt(ctx, entity.Position{X: 1, Y: 6}, entity.DirSouth, v)

	mc.step(ctx) // 跳入目标格，到达拍不计维修
	require.Equal(t, v.pos, mc.pos)
	require.False(t, mc.IsRepairing())

	for i := 1; i <= 4; i++ {
		mc.step(ctx)
		assert.True(t, mc.IsRepairing())
		assert.True(t, v.IsBroken(), "tick %d", i)
		assert.True(t, mc.IsActive(), "tick %d", i)
	}

	mc.step(ctx) // 第5个维修拍，修复完成

	assert.False(t, v.IsBroken())
	assert.Equal(t, entity.VehicleCalm, v.State())
	assert.Equal(t, 100, v.Happiness())
	assert.False(t, mc.IsActive())
	assert.Equal(t, 0, ctx.vm.MechanicCount())
	assert.Equal(t, 1, ctx.vm.Totals().Repairs)
	// 维修车已离格，目标车辆仍在原地
	assert.True(t, ctx.g.HasMobileAt(v.pos, nil))
	assert.False(t, ctx.g.HasMobileAt(v.pos, v))
	assert.Equal(t, entity.Position{X: 1, Y: 5}, v.pos)
}

func TestBrokenVehicleFrozen(t *testing.T) {
	c := quietConfig()
	c.Vehicle.BreakdownChance = 1
	ctx := newTestCtx(c)
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 7}, entity.DirSouth, entity.Position{X: 1, Y: 2})

	v.step(ctx)

	assert.True(t, v.IsBroken())
	assert.Equal(t, entity.VehicleBroken, v.State())
	assert.Equal(t, entity.Position{X: 1, Y: 7}, v.pos)
	assert.Equal(t, 1, ctx.vm.Totals().Breakdowns)
	assert.Equal(t, 1, ctx.vm.MechanicCount())

	// 已故障车辆不再重复故障判定，也不衰减幸福度
	for i := 0; i < 10; i++ {
		v.step(ctx)
	}
	assert.Equal(t, entity.Position{X: 1, Y: 7}, v.pos)
	assert.Equal(t, 100, v.Happiness())
	assert.Equal(t, 1, ctx.vm.Totals().Breakdowns)
	assert.Equal(t, 1, ctx.vm.MechanicCount())
}

func TestDispatchNoFreeSpawnPoint(t *testing.T) {
	c := quietConfig()
	c.Vehicle.BreakdownChance = 1
	ctx := newTestCtx(c)
	// 占满全部出生点
	for _, sp := range ctx.net.SpawnPoints() {
		blocker := ctx.vm.NewVehicleAt(ctx, sp.Position(), sp.Direction(), entity.Position{X: 1, Y: 1})
		blocker.steps = 1
	}
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 7}, entity.DirSouth, entity.Position{X: 1, Y: 2})

	v.step(ctx)

	assert.True(t, v.IsBroken())
	assert.Equal(t, 0, ctx.vm.MechanicCount())
	assert.Equal(t, 1, ctx.vm.Totals().Breakdowns)
}

func TestMechanicRestoredVehicleResumes(t *testing.T) {
	ctx := newTestCtx(quietConfig())
	v := ctx.vm.NewVehicleAt(ctx, entity.Position{X: 1, Y: 5}, entity.DirSouth, entity.Position{X: 1, Y: 2})
	v.steps = 1
	breakVehicle(v)
	mc := newMechanicAt(ctx, entity.Position{X: 1, Y: 6}, entity.DirSouth, v)

	for i := 0; i < 6; i++ {
		mc.step(ctx)
	}
	require.False(t, v.IsBroken())

	v.step(ctx)
	assert.Equal(t, entity.Position{X: 1, Y: 4}, v.pos)
}
