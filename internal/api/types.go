package api

import "psgc-api/internal/export"

// 文档注释：查询返回结构（对外）
// 背景：单条查询直接复用扁平序列化模型，保证 API 与文件导出字段一致；
// 列表接口统一带条数，便于前端分页与空态处理。
type listResult struct {
	Count   int                 `json:"count"`
	Results []export.FlatRecord `json:"results"`
}

type levelsResult struct {
	Levels map[string]int64 `json:"levels"`
}
