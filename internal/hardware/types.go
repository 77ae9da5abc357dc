package hardware

// 微控制器角色标签
const (
	BoardPanel   = "PI1" // 面板：按键/LED/振动/数码管
	BoardVisual  = "PI2" // 视觉：超声传感器
	BoardTactile = "PI3" // 触觉：压力ADC/电位器/UART上报
)

// ADC量程
const (
	ADCMin uint16 = 0
	ADCMax uint16 = 1023
)

// 数码管显示标签
const (
	LabelGo      = "GO"
	LabelVisual  = "VIS"
	LabelTactile = "TAC"
	LabelTotal   = "TOT"
)

// RoundReport 单回合结果报文
type RoundReport struct {
	Round     uint32 // 回合序号
	WaitMs    uint32 // 随机等待时长
	VisualMs  uint32 // 视觉反应时间
	TactileMs uint32 // 触觉反应时间
	TotalMs   uint32 // 总反应时间
	BestMs    uint32 // 当前最佳总时间
}
