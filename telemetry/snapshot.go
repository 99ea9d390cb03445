package telemetry

import (
	"github.com/samber/lo"

	"github.com/urban-sims/microtraffic/entity"
)

// VehicleView 快照中的单辆车视图
type VehicleView struct {
	ID           entity.AgentID  `json:"id"`
	Position     entity.Position `json:"position"`
	Direction    string          `json:"direction"`
	WaitingTicks int             `json:"waiting_ticks"`
	Happiness    int             `json:"happiness"`
	State        string          `json:"state"`
}

// LightView 快照中的单个信号灯视图
type LightView struct {
	GroupID  int             `json:"group_id"`
	State    string          `json:"state"`
	Position entity.Position `json:"position"`
}

// MechanicView 快照中的单辆维修车视图
type MechanicView struct {
	ID        entity.AgentID  `json:"id"`
	Position  entity.Position `json:"position"`
	TargetID  entity.AgentID  `json:"target_id"`
	Repairing bool            `json:"repairing"`
}

// Aggregates 快照聚合指标
// 说明：维修车不计入任何车辆聚合项，无车辆时平均幸福度为0
type Aggregates struct {
	TotalVehicles    int     `json:"total_vehicles"`
	WaitingVehicles  int     `json:"waiting_vehicles"`
	BrokenVehicles   int     `json:"broken_vehicles"`
	AngryVehicles    int     `json:"angry_vehicles"`
	Mechanics        int     `json:"mechanics"`
	GreenLights      int     `json:"green_lights"`
	AverageHappiness float64 `json:"average_happiness"`
}

// Snapshot 单节拍不可变快照
// 说明：每拍重建一次，两次Step之间重复获取返回同一份内容
type Snapshot struct {
	Tick       int32                `json:"tick"`
	Vehicles   []VehicleView        `json:"vehicles"`
	Lights     []LightView          `json:"traffic_lights"`
	Mechanics  []MechanicView       `json:"mechanics"`
	Aggregates Aggregates           `json:"statistics"`
	Totals     entity.VehicleTotals `json:"totals"`
}

// Collect 采集当前节拍的快照
// 算法说明：
// 1. 车辆与维修车视图按ID升序，信号灯按灯组升序
// 2. 聚合项在同一次遍历中累计
func Collect(ctx entity.ITaskContext) *Snapshot {
	vehicles := ctx.VehicleManager().ActiveVehicles()
	mechanics := ctx.VehicleManager().ActiveMechanics()
	lights := ctx.LightManager().Lights()

	s := &Snapshot{
		Tick:      ctx.Clock().Tick,
		Vehicles:  make([]VehicleView, 0, len(vehicles)),
		Lights:    make([]LightView, 0, len(lights)),
		Mechanics: make([]MechanicView, 0, len(mechanics)),
		Totals:    ctx.VehicleManager().Totals(),
	}

	happinessSum := 0
	for _, v := range vehicles {
		s.Vehicles = append(s.Vehicles, VehicleView{
			ID:           v.ID(),
			Position:     v.Position(),
			Direction:    v.Heading().String(),
			WaitingTicks: v.WaitingTicks(),
			Happiness:    v.Happiness(),
			State:        v.State().String(),
		})
		happinessSum += v.Happiness()
		if v.WaitingTicks() > 0 {
			s.Aggregates.WaitingVehicles++
		}
		if v.IsBroken() {
			s.Aggregates.BrokenVehicles++
		}
		if v.State() == entity.VehicleAngry {
			s.Aggregates.AngryVehicles++
		}
	}
	for _, l := range lights {
		s.Lights = append(s.Lights, LightView{
			GroupID:  l.GroupID(),
			State:    l.State().String(),
			Position: l.Position(),
		})
	}
	for _, mc := range mechanics {
		s.Mechanics = append(s.Mechanics, MechanicView{
			ID:        mc.ID(),
			Position:  mc.Position(),
			TargetID:  mc.TargetID(),
			Repairing: mc.IsRepairing(),
		})
	}

	s.Aggregates.TotalVehicles = len(vehicles)
	s.Aggregates.Mechanics = len(mechanics)
	s.Aggregates.GreenLights = ctx.LightManager().GreenLightCount()
	if len(vehicles) > 0 {
		s.Aggregates.AverageHappiness = float64(happinessSum) / float64(len(vehicles))
	}
	return s
}

// congestionCells 中央路口的四个拥堵观测格
var congestionCells = []entity.Position{
	{X: 12, Y: 11}, {X: 13, Y: 11}, {X: 12, Y: 12}, {X: 13, Y: 12},
}

// Metrics 落库用的单节拍扁平指标行
type Metrics struct {
	Tick                   int32   `db:"tick"`
	Vehicles               int     `db:"vehicles"`
	Mechanics              int     `db:"mechanics"`
	BrokenVehicles         int     `db:"broken_vehicles"`
	AngryVehicles          int     `db:"angry_vehicles"`
	WaitingVehicles        int     `db:"waiting_vehicles"`
	AverageHappiness       float64 `db:"average_happiness"`
	AngerRate              float64 `db:"anger_rate"`
	AverageWaiting         float64 `db:"average_waiting"`
	IntersectionCongestion int     `db:"intersection_congestion"`
	Completed              int     `db:"completed"`
	Breakdowns             int     `db:"breakdowns"`
}

// CollectMetrics 在快照基础上派生指标行
// 算法说明：
// 1. 愤怒率与平均等待由快照车辆视图汇总，无车辆时为0
// 2. 路口拥堵为中央路口四格上的移动智能体数
// 3. 完成数与故障数取管理器累计值
func CollectMetrics(ctx entity.ITaskContext, s *Snapshot) Metrics {
	m := Metrics{
		Tick:             s.Tick,
		Vehicles:         s.Aggregates.TotalVehicles,
		Mechanics:        s.Aggregates.Mechanics,
		BrokenVehicles:   s.Aggregates.BrokenVehicles,
		AngryVehicles:    s.Aggregates.AngryVehicles,
		WaitingVehicles:  s.Aggregates.WaitingVehicles,
		AverageHappiness: s.Aggregates.AverageHappiness,
		Completed:        s.Totals.Completed,
		Breakdowns:       s.Totals.Breakdowns,
	}
	if len(s.Vehicles) > 0 {
		waitingSum := lo.SumBy(s.Vehicles, func(v VehicleView) int { return v.WaitingTicks })
		m.AngerRate = float64(s.Aggregates.AngryVehicles) / float64(len(s.Vehicles))
		m.AverageWaiting = float64(waitingSum) / float64(len(s.Vehicles))
	}
	for _, pos := range congestionCells {
		if ctx.Grid().HasMobileAt(pos, nil) {
			m.IntersectionCongestion++
		}
	}
	return m
}
