package gateway

import "errors"

// 面向用户的错误种类。错误文本即界面展示的中文提示，
// 程序上只通过 errors.Is 区分种类，不再细分原因。
var (
	ErrSearchFailed         = errors.New("视频搜索失败，请稍后重试")
	ErrAnalysisFailed       = errors.New("视频分析失败，请稍后重试")
	ErrPlanGenerationFailed = errors.New("教案生成失败，请稍后重试")
)
