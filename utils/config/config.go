package config

import (
	"fmt"
)

// Default 默认配置
// 功能：返回填充了全部默认值的配置对象
// 说明：YAML解析直接覆盖在默认值之上，缺省项保持默认
func Default() Config {
	return Config{
		Control: Control{
			Step: ControlStep{Total: 500},
			Seed: 1,
		},
		Grid: Grid{Width: 24, Height: 24},
		Vehicle: Vehicle{
			SpawnRate:       0.4,
			MinCount:        4,
			MaxCount:        10,
			BreakdownChance: 0.001,
		},
		Light: Light{
			GreenTicks:  10,
			YellowTicks: 3,
			RedTicks:    13,
		},
		Output: Output{Interval: 1},
	}
}

// Validate 校验配置
// 功能：检查配置项的取值范围
// 返回：首个不合法项的error，全部合法时返回nil
// 说明：快速失败，非法配置不允许进入仿真初始化
func (c Config) Validate() error {
	if c.Control.Step.Total < 0 {
		return fmt.Errorf("control.step.total must be non-negative, got %d", c.Control.Step.Total)
	}
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("grid size must be positive, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if c.Vehicle.SpawnRate < 0 || c.Vehicle.SpawnRate > 1 {
		return fmt.Errorf("vehicle.spawn_rate must be in [0,1], got %f", c.Vehicle.SpawnRate)
	}
	if c.Vehicle.BreakdownChance < 0 || c.Vehicle.BreakdownChance > 1 {
		return fmt.Errorf("vehicle.breakdown_chance must be in [0,1], got %f", c.Vehicle.BreakdownChance)
	}
	if c.Vehicle.MinCount < 0 {
		return fmt.Errorf("vehicle.min_count must be non-negative, got %d", c.Vehicle.MinCount)
	}
	if c.Vehicle.MaxCount < c.Vehicle.MinCount {
		return fmt.Errorf("vehicle.max_count %d must be >= vehicle.min_count %d", c.Vehicle.MaxCount, c.Vehicle.MinCount)
	}
	if c.Light.GreenTicks <= 0 || c.Light.YellowTicks <= 0 || c.Light.RedTicks <= 0 {
		return fmt.Errorf("light durations must be positive, got green=%d yellow=%d red=%d",
			c.Light.GreenTicks, c.Light.YellowTicks, c.Light.RedTicks)
	}
	if c.Output.Interval < 0 {
		return fmt.Errorf("output.interval must be non-negative, got %d", c.Output.Interval)
	}
	return nil
}

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息
// 说明：将YAML配置转换为运行时可用的配置对象
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，补齐缺省值
// 参数：config-原始配置对象，必须已通过Validate
// 返回：初始化的运行时配置指针
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	if config.Output.Interval == 0 {
		config.Output.Interval = 1
	}
	rc.All = config
	rc.C = config.Control

	return rc
}
