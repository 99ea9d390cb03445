package config

// ControlStep 指定模拟器模拟节拍范围的配置项
// 功能：定义仿真时间控制参数
type ControlStep struct {
	Total int32 `yaml:"total" json:"total"` // 总节拍数
}

// Control 模拟器控制配置
// 功能：定义仿真系统的核心控制参数
// 说明：包含节拍控制与随机数种子，同一种子产生同一仿真轨迹
type Control struct {
	Step ControlStep `yaml:"step" json:"step"`
	Seed uint64      `yaml:"seed,omitempty" json:"seed,omitempty"` // 随机数种子
}

// Grid 占用网格配置
// 功能：定义网格尺寸
// 说明：尺寸必须覆盖静态路网的最小包络，该校验在任务初始化时进行
type Grid struct {
	Width  int `yaml:"width" json:"width"`   // 网格宽度
	Height int `yaml:"height" json:"height"` // 网格高度
}

// Vehicle 车辆生成与故障配置
// 功能：定义生成控制器与故障模型参数
type Vehicle struct {
	SpawnRate       float64 `yaml:"spawn_rate" json:"spawn_rate"`             // 每空闲出生点每节拍生成概率
	MinCount        int     `yaml:"min_count" json:"min_count"`               // 车辆数下限，低于时强制生成
	MaxCount        int     `yaml:"max_count" json:"max_count"`               // 车辆数上限
	BreakdownChance float64 `yaml:"breakdown_chance" json:"breakdown_chance"` // 每车每节拍故障概率
}

// Light 信号灯相位时长配置
// 功能：定义三个相位的持续节拍数
type Light struct {
	GreenTicks  int `yaml:"green_ticks" json:"green_ticks"`   // 绿灯持续节拍数
	YellowTicks int `yaml:"yellow_ticks" json:"yellow_ticks"` // 黄灯持续节拍数
	RedTicks    int `yaml:"red_ticks" json:"red_ticks"`       // 红灯最短持续节拍数
}

// Output 遥测落库配置
// 功能：定义遥测指标的sqlite输出
type Output struct {
	DB       string `yaml:"db,omitempty" json:"db,omitempty"`             // sqlite文件路径，为空则不落库
	Interval int32  `yaml:"interval,omitempty" json:"interval,omitempty"` // 落库间隔节拍数，默认为1
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
type Config struct {
	Control Control `yaml:"control" json:"control"`                   // 模拟过程控制
	Grid    Grid    `yaml:"grid" json:"grid"`                         // 网格
	Vehicle Vehicle `yaml:"vehicle" json:"vehicle"`                   // 车辆
	Light   Light   `yaml:"light" json:"light"`                       // 信号灯
	Output  Output  `yaml:"output,omitempty" json:"output,omitempty"` // 输出
}
