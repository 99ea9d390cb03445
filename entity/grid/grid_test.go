package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urban-sims/microtraffic/entity"
	"github.com/urban-sims/microtraffic/entity/grid"
)

// fakeAgent 测试用智能体
type fakeAgent struct {
	id   entity.AgentID
	kind entity.AgentKind
	pos  entity.Position
}

func (a *fakeAgent) ID() entity.AgentID        { return a.id }
func (a *fakeAgent) Kind() entity.AgentKind    { return a.kind }
func (a *fakeAgent) Position() entity.Position { return a.pos }

// fakeLight 测试用信号灯
type fakeLight struct {
	fakeAgent
	group int
	state entity.LightState
}

func (l *fakeLight) GroupID() int             { return l.group }
func (l *fakeLight) State() entity.LightState { return l.state }

func TestPlaceAndOccupants(t *testing.T) {
	g := grid.New(24, 24)
	assert.Equal(t, 24, g.Width())
	assert.Equal(t, 24, g.Height())

	v := &fakeAgent{id: 1, kind: entity.KindVehicle}
	b := &fakeAgent{id: 2, kind: entity.KindBuilding}
	pos := entity.Position{X: 3, Y: 4}
	require.NoError(t, g.Place(v, pos))
	require.NoError(t, g.Place(b, pos))

	// 结构上允许同格多占用
	occ := g.OccupantsAt(pos)
	require.Len(t, occ, 2)
	assert.Equal(t, entity.AgentID(1), occ[0].ID())
	assert.Equal(t, entity.AgentID(2), occ[1].ID())
}

func TestPlaceOutOfBounds(t *testing.T) {
	g := grid.New(8, 8)
	v := &fakeAgent{id: 1, kind: entity.KindVehicle}
	err := g.Place(v, entity.Position{X: 8, Y: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrOutOfBounds)
	assert.Empty(t, g.MobileAgents())
}

func TestMoveTo(t *testing.T) {
	g := grid.New(8, 8)
	v := &fakeAgent{id: 1, kind: entity.KindVehicle}
	from := entity.Position{X: 1, Y: 1}
	to := entity.Position{X: 1, Y: 2}
	require.NoError(t, g.Place(v, from))
	require.NoError(t, g.MoveTo(v, to))
	assert.Empty(t, g.OccupantsAt(from))
	require.Len(t, g.OccupantsAt(to), 1)

	// 越界迁移失败且原登记不变
	err := g.MoveTo(v, entity.Position{X: -1, Y: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrOutOfBounds)
	require.Len(t, g.OccupantsAt(to), 1)
}

func TestRemove(t *testing.T) {
	g := grid.New(8, 8)
	v := &fakeAgent{id: 1, kind: entity.KindVehicle}
	pos := entity.Position{X: 5, Y: 5}
	require.NoError(t, g.Place(v, pos))
	g.Remove(v)
	assert.Empty(t, g.OccupantsAt(pos))
	// 重复移除为空操作
	g.Remove(v)
}

func TestHasMobileAt(t *testing.T) {
	g := grid.New(8, 8)
	pos := entity.Position{X: 2, Y: 2}
	b := &fakeAgent{id: 1, kind: entity.KindBuilding}
	require.NoError(t, g.Place(b, pos))
	// 静态占用者不算可移动占用
	assert.False(t, g.HasMobileAt(pos, nil))

	v := &fakeAgent{id: 2, kind: entity.KindVehicle}
	require.NoError(t, g.Place(v, pos))
	assert.True(t, g.HasMobileAt(pos, nil))
	// 排除对象后视为空闲
	assert.False(t, g.HasMobileAt(pos, v))

	m := &fakeAgent{id: 3, kind: entity.KindMechanic}
	require.NoError(t, g.Place(m, pos))
	assert.True(t, g.HasMobileAt(pos, v))
}

func TestLightAt(t *testing.T) {
	g := grid.New(8, 8)
	pos := entity.Position{X: 0, Y: 6}
	_, ok := g.LightAt(pos)
	assert.False(t, ok)

	l := &fakeLight{fakeAgent: fakeAgent{id: 7, kind: entity.KindTrafficLight}, group: 1, state: entity.LightGreen}
	require.NoError(t, g.Place(l, pos))
	got, ok := g.LightAt(pos)
	require.True(t, ok)
	assert.Equal(t, 1, got.GroupID())
	assert.Equal(t, entity.LightGreen, got.State())
}

func TestMobileAgents(t *testing.T) {
	g := grid.New(8, 8)
	require.NoError(t, g.Place(&fakeAgent{id: 3, kind: entity.KindVehicle}, entity.Position{X: 1, Y: 1}))
	require.NoError(t, g.Place(&fakeAgent{id: 1, kind: entity.KindMechanic}, entity.Position{X: 2, Y: 1}))
	require.NoError(t, g.Place(&fakeAgent{id: 2, kind: entity.KindSpawnPoint}, entity.Position{X: 3, Y: 1}))

	mobile := g.MobileAgents()
	require.Len(t, mobile, 2)
	assert.Equal(t, entity.AgentID(1), mobile[0].ID())
	assert.Equal(t, entity.AgentID(3), mobile[1].ID())
}
