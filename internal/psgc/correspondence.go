package psgc

import (
	"math"
	"strconv"
	"strings"
)

// ValidateCorrespondence：归一化对应码并标记非整数值
// 背景：源表对应码本应为整数，但常以浮点格式存储并带 ".0" 噪声；带非零小数说明上游数据损坏
// 约束：空值返回空串不告警；无法解析的值去空白后原样透传也不告警（刻意宽松，
// 与"可解析但含非零小数"区分为不同缺陷类别）；纯函数，不做任何 I/O
func ValidateCorrespondence(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}
	if !strings.Contains(v, ".") {
		return v, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v, false
	}
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', -1, 64), false
	}
	return v, true
}

// Warning：一条对应码数据质量告警，按记录编码与名称定位
type Warning struct {
	Code string `json:"psgc_code"`
	Name string `json:"name"`
	Raw  string `json:"correspondence_code"`
}

// WarningList：告警收集器
// 背景：校验本身是纯函数；告警由调用方在归一化过程中聚合，最后整体上报
type WarningList struct {
	items []Warning
}

func (w *WarningList) Add(code, name, raw string) {
	w.items = append(w.items, Warning{Code: code, Name: name, Raw: raw})
}

func (w *WarningList) Items() []Warning { return w.items }

func (w *WarningList) Len() int { return len(w.items) }
