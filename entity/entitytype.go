package entity

import (
	"fmt"
)

// AgentID 智能体唯一标识
type AgentID int32

// AgentKind 智能体类别标签，网格占用查询与注册表分类依据
type AgentKind uint8

const (
	KindBuilding     AgentKind = iota // 建筑
	KindSpawnPoint                    // 出生点
	KindTrafficLight                  // 信号灯
	KindVehicle                       // 车辆
	KindMechanic                      // 维修车
)

func (k AgentKind) String() string {
	switch k {
	case KindBuilding:
		return "building"
	case KindSpawnPoint:
		return "spawn_point"
	case KindTrafficLight:
		return "traffic_light"
	case KindVehicle:
		return "vehicle"
	case KindMechanic:
		return "mechanic"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// IsMobile 判断该类别是否为可移动智能体（车辆与维修车）
func (k AgentKind) IsMobile() bool {
	return k == KindVehicle || k == KindMechanic
}

// Position 网格坐标，x向右、y向上，合法范围[0,width)×[0,height)
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add 沿指定方向平移一格
func (p Position) Add(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// ManhattanTo 计算到另一坐标的曼哈顿距离
func (p Position) ManhattanTo(o Position) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Direction 行驶方向，四个基本朝向
type Direction uint8

const (
	DirNorth Direction = iota // 北，y+1
	DirSouth                  // 南，y-1
	DirEast                   // 东，x+1
	DirWest                   // 西，x-1
)

// Directions 全部方向，遍历邻格时使用
var Directions = [4]Direction{DirNorth, DirSouth, DirEast, DirWest}

// Delta 方向对应的坐标增量
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirNorth:
		return 0, 1
	case DirSouth:
		return 0, -1
	case DirEast:
		return 1, 0
	case DirWest:
		return -1, 0
	default:
		return 0, 0
	}
}

// Opposite 反方向
func (d Direction) Opposite() Direction {
	switch d {
	case DirNorth:
		return DirSouth
	case DirSouth:
		return DirNorth
	case DirEast:
		return DirWest
	default:
		return DirEast
	}
}

// Perpendicular 与本方向垂直的两个方向
func (d Direction) Perpendicular() [2]Direction {
	if d == DirNorth || d == DirSouth {
		return [2]Direction{DirEast, DirWest}
	}
	return [2]Direction{DirNorth, DirSouth}
}

func (d Direction) String() string {
	switch d {
	case DirNorth:
		return "north"
	case DirSouth:
		return "south"
	case DirEast:
		return "east"
	default:
		return "west"
	}
}

// DirectionBetween 计算从from到相邻格to的方向，不相邻时ok为false
func DirectionBetween(from, to Position) (d Direction, ok bool) {
	switch {
	case to.X == from.X && to.Y == from.Y+1:
		return DirNorth, true
	case to.X == from.X && to.Y == from.Y-1:
		return DirSouth, true
	case to.X == from.X+1 && to.Y == from.Y:
		return DirEast, true
	case to.X == from.X-1 && to.Y == from.Y:
		return DirWest, true
	default:
		return DirNorth, false
	}
}

// LightState 信号灯状态
type LightState uint8

const (
	LightRed    LightState = iota // 红灯
	LightYellow                   // 黄灯
	LightGreen                    // 绿灯
)

func (s LightState) String() string {
	switch s {
	case LightRed:
		return "red"
	case LightYellow:
		return "yellow"
	case LightGreen:
		return "green"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// VehicleState 车辆情绪状态，影响驾驶规则
type VehicleState uint8

const (
	VehicleCalm   VehicleState = iota // 平静，遵守信号灯
	VehicleAngry                      // 愤怒，无视信号灯但仍避让占用
	VehicleBroken                     // 故障，静止等待维修
)

func (s VehicleState) String() string {
	switch s {
	case VehicleCalm:
		return "calm"
	case VehicleAngry:
		return "angry"
	case VehicleBroken:
		return "broken"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// IAgent 所有网格占用者的统一能力集
type IAgent interface {
	ID() AgentID       // 获取智能体ID
	Kind() AgentKind   // 获取智能体类别
	Position() Position // 获取当前坐标
}

// entity/roadnet/roadnet.go的依赖倒置
type ISpawnPoint interface {
	IAgent

	SpawnID() int         // 获取出生点编号
	Direction() Direction // 获取出生方向
}

// entity/light/light.go的依赖倒置
type ITrafficLight interface {
	IAgent

	GroupID() int      // 获取所属灯组编号
	State() LightState // 获取当前灯态（与灯组同步）
}

// entity/vehicle/vehicle.go的依赖倒置
type IVehicle interface {
	IAgent

	PreviousPosition() (Position, bool) // 获取上一坐标，尚未移动过时ok为false
	Heading() Direction                 // 获取当前朝向
	Destination() Position              // 获取目的地坐标
	Happiness() int                     // 获取幸福度，范围[0,100]
	State() VehicleState                // 获取情绪状态
	WaitingTicks() int                  // 获取连续等待节拍数
	CompletedSteps() int                // 获取成功移动次数
	IsBroken() bool                     // 判断是否故障
	IsActive() bool                     // 判断是否仍在运行
}

// entity/vehicle/mechanic.go的依赖倒置
type IMechanic interface {
	IAgent

	TargetID() AgentID // 获取维修目标车辆ID
	IsRepairing() bool // 判断是否正在维修
	IsActive() bool    // 判断是否仍在运行
}
