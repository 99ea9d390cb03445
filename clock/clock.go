package clock

import (
	"fmt"

	"github.com/urban-sims/microtraffic/utils/config"
)

// Clock 仿真时钟管理器
// 功能：管理仿真系统的节拍推进
// 说明：维护当前节拍与结束节拍，模拟区间[START_TICK, END_TICK)
type Clock struct {
	START_TICK int32 // 起始节拍
	END_TICK   int32 // 结束节拍

	Tick int32 // 当前节拍
}

// New 根据配置创建新的时钟实例
// 功能：根据控制步配置初始化时钟信息
// 参数：stepConfig-控制步配置，包含总节拍数
// 返回：初始化完成的时钟实例
func New(stepConfig config.ControlStep) *Clock {
	c := &Clock{
		START_TICK: 0,
		END_TICK:   stepConfig.Total,
	}
	c.Init()
	return c
}

// Init 初始化时钟状态
// 功能：重置当前节拍为起始节拍
// 说明：Reset复用同一实例时调用
func (c *Clock) Init() {
	c.Tick = c.START_TICK
}

// Advance 推进一个节拍
// 功能：当前节拍自增1
func (c *Clock) Advance() {
	c.Tick++
}

// Done 判断模拟区间是否结束
// 返回：当前节拍达到结束节拍时为true
func (c *Clock) Done() bool {
	return c.Tick >= c.END_TICK
}

// String 获取时钟的字符串表示
// 返回：格式化的节拍字符串
func (c *Clock) String() string {
	return fmt.Sprintf("tick %d/%d", c.Tick, c.END_TICK)
}
