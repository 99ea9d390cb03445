package entity

import (
	"github.com/urban-sims/microtraffic/clock"
	"github.com/urban-sims/microtraffic/utils/config"
	"github.com/urban-sims/microtraffic/utils/randengine"
)

// task/task.go的依赖倒置
type ITaskContext interface {
	Clock() *clock.Clock                  // 获取仿真全局时钟
	Grid() IGrid                          // 获取占用网格
	RoadNetwork() IRoadNetwork            // 获取静态路网
	LightManager() ILightManager          // 获取信号灯管理器
	VehicleManager() IVehicleManager      // 获取车辆管理器
	Rand() *randengine.Engine             // 获取全局随机数引擎
	IDs() *IDAllocator                    // 获取智能体ID分配器
	RuntimeConfig() *config.RuntimeConfig // 获取运行时配置
}
