// 随机数引擎，包装了golang.org/x/exp/rand，提供了一些常用的随机数生成方法
package randengine

import (
	"log"

	"golang.org/x/exp/rand"
)

// Engine 随机数引擎
// 功能：提供确定性的随机数生成，同一种子产生同一序列
// 说明：基于golang.org/x/exp/rand库，仿真内所有随机决策共用同一个实例
type Engine struct {
	*rand.Rand // 底层随机数生成器
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed))}
}

// PTrue 以指定概率返回true
// 功能：根据给定概率返回布尔值
// 参数：p-返回true的概率（0.0到1.0之间）
// 返回：true或false
// 说明：实现伯努利分布，用于模拟概率事件
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// Choice 从切片中等概率抽取一个元素
// 功能：均匀选择切片元素
// 参数：e-随机数引擎 xs-候选切片，不能为空
// 返回：选中的元素
func Choice[T any](e *Engine, xs []T) T {
	if len(xs) == 0 {
		log.Panic("randengine: Choice: empty slice")
	}
	return xs[e.Intn(len(xs))]
}
