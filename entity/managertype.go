package entity

// Manager依赖倒置

// IDAllocator 全局智能体ID分配器，静态与动态智能体共用一个编号空间
type IDAllocator struct {
	next AgentID
}

// NewIDAllocator 创建从1开始分配的ID分配器
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1}
}

// Next 分配下一个ID
func (a *IDAllocator) Next() AgentID {
	id := a.next
	a.next++
	return id
}

// entity/grid/grid.go的依赖倒置
type IGrid interface {
	Width() int  // 获取网格宽度
	Height() int // 获取网格高度

	// 判断坐标是否在[0,width)×[0,height)范围内
	Contains(pos Position) bool

	// 放置智能体，坐标越界返回ErrOutOfBounds
	Place(a IAgent, pos Position) error
	// 移除智能体，未注册时为空操作
	Remove(a IAgent)
	// 原子迁移智能体到新坐标，越界返回ErrOutOfBounds且不改变原状态
	MoveTo(a IAgent, pos Position) error

	// 获取指定坐标的全部占用者
	OccupantsAt(pos Position) []IAgent
	// 判断指定坐标是否被可移动智能体（车辆/维修车）占用，except为nil时不排除任何对象
	HasMobileAt(pos Position, except IAgent) bool
	// 获取指定坐标上的信号灯，不存在时ok为false
	LightAt(pos Position) (light ITrafficLight, ok bool)
	// 获取全部可移动占用者（校验用）
	MobileAgents() []IAgent
}

// entity/roadnet/roadnet.go的依赖倒置
type IRoadNetwork interface {
	Init(ids *IDAllocator) // 初始化静态智能体编号

	// 判断坐标是否为道路（含仅由强制转向表可达的连接格）
	IsRoad(pos Position) bool
	// 获取车道族规定方向，无车道方向的坐标返回ErrInvalidPosition
	LaneDirectionAt(pos Position) (Direction, error)
	// 判断坐标是否属于指定方向的车道族
	InFamily(pos Position, d Direction) bool
	// 获取路口强制转向格，无强制规则时返回nil，非道路坐标返回ErrInvalidPosition
	JunctionOverride(pos Position) ([]Position, error)

	SpawnPoints() []ISpawnPoint         // 获取全部出生点（按编号升序）
	Buildings() []IAgent                // 获取全部建筑
	LightPlacements() map[int][]Position // 获取灯组编号到灯位坐标表
	Extent() (width, height int)        // 获取路网最小包络尺寸
}

// entity/light/manager.go的依赖倒置
type ILightManager interface {
	Init(ctx ITaskContext) // 初始化灯组与错峰初相

	// 输入灯组编号，查找灯组，如果不存在则panic
	Get(groupID int) ILightGroup
	// 输入灯组编号，查找灯组，如果不存在则返回error
	GetOrError(groupID int) (ILightGroup, error)

	Groups() []ILightGroup   // 获取全部灯组（编号升序）
	Lights() []ITrafficLight // 获取全部信号灯实例
	GreenLightCount() int    // 统计处于绿灯的信号灯实例数

	Update(ctx ITaskContext) // 更新阶段：推进全部灯组状态机
}

// ILightGroup 灯组状态机接口
type ILightGroup interface {
	GroupID() int            // 获取灯组编号
	State() LightState       // 获取当前状态
	ElapsedTicks() int       // 获取当前状态持续节拍数
	Lights() []ITrafficLight // 获取组内信号灯实例
}

// VehicleTotals 车辆管理器累计计数
type VehicleTotals struct {
	Spawned    int `json:"spawned"`    // 累计生成车辆数
	Completed  int `json:"completed"`  // 累计到达目的地车辆数
	Breakdowns int `json:"breakdowns"` // 累计故障事件数
	Repairs    int `json:"repairs"`    // 累计完成维修数
}

// entity/vehicle/manager.go的依赖倒置
type IVehicleManager interface {
	Init(ctx ITaskContext) // 初始化

	// 输入车辆ID，查找车辆，如果不存在则panic
	Get(id AgentID) IVehicle
	// 输入车辆ID，查找车辆，如果不存在则返回error
	GetOrError(id AgentID) (IVehicle, error)

	// 在出生点创建车辆并放置上网格，目的地从其余出生点中均匀抽取
	NewVehicle(ctx ITaskContext, sp ISpawnPoint) IVehicle
	// 故障车辆的维修车派遣入口，无空闲出生点时静默不派遣
	DispatchMechanic(ctx ITaskContext, target IVehicle)

	ActiveVehicles() []IVehicle   // 获取全部在运行车辆
	ActiveMechanics() []IMechanic // 获取全部在运行维修车
	VehicleCount() int            // 统计在运行车辆数（不含维修车）
	MechanicCount() int           // 统计在运行维修车数
	Totals() VehicleTotals        // 获取累计计数

	PrepareNode()            // 准备阶段：应用上一节拍挂起的增删
	Update(ctx ITaskContext) // 更新阶段：乱序推进全部车辆与维修车
	Spawn(ctx ITaskContext)  // 生成阶段：维持车辆数于[min_count,max_count]区间
}
