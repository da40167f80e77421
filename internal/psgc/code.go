// 包 psgc：PSGC 编码解析、行政层级判定与层级树组装的核心逻辑
package psgc

// CodeLength：标准 PSGC 编码固定长度（RRPPPMMBBB）
const CodeLength = 10

// Segments：10 位编码按固定位宽拆出的四段
// 约束：段值保留前导零，仅做等值比较，不得按整数解析；nil 表示编码不合规无法拆段
type Segments struct {
	Region   *string
	Province *string
	Locality *string
	Barangay *string
}

// Decompose：将编码拆为 RR(区域)/PPP(省)/MM(市镇)/BBB(描笼涯) 四段
// 背景：编码格式固定为 RRPPPMMBBB；长度不符时四段全部为 nil，不报错
// 约束：不校验字符是否为数字，按固定偏移原样切片透传
func Decompose(code string) Segments {
	if len(code) != CodeLength {
		return Segments{}
	}
	r := code[0:2]
	p := code[2:5]
	m := code[5:7]
	b := code[7:10]
	return Segments{Region: &r, Province: &p, Locality: &m, Barangay: &b}
}

// segEq：段等值比较，nil 段不与任何值相等
func segEq(s *string, v string) bool {
	return s != nil && *s == v
}
