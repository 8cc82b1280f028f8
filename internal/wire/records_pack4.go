package wire

// Align-4 records: every field is aligned to its own natural alignment,
// capped at 4 bytes, matching the legacy #pragma pack(push, 4) section.
// A record's total size is padded at the tail to a multiple of the
// largest alignment any of its fields requires — exactly what writer's
// alignEnd(4) reproduces once every field has been written in order.

// GradeItemInfo is one quality/size grading cell (StGradeItemInfo).
type GradeItemInfo struct {
	Exit          uint32
	MinSize       float32
	MaxSize       float32
	FruitNum      int32
	ColorGrade    int8
	ShapeSize     int8
	Density       int8
	FlawArea      int8
	Bruise        int8
	Rot           int8
	Sugar         int8
	Acidity       int8
	Hollow        int8
	Skin          int8
	Brown         int8
	Tangxin       int8
	Rigidity      int8
	Water         int8
	LabelbyGrade  int8
}

func (g GradeItemInfo) encode(w *writer) {
	w.u32(g.Exit)
	w.f32(g.MinSize)
	w.f32(g.MaxSize)
	w.i32(g.FruitNum)
	w.i8(g.ColorGrade)
	w.i8(g.ShapeSize)
	w.i8(g.Density)
	w.i8(g.FlawArea)
	w.i8(g.Bruise)
	w.i8(g.Rot)
	w.i8(g.Sugar)
	w.i8(g.Acidity)
	w.i8(g.Hollow)
	w.i8(g.Skin)
	w.i8(g.Brown)
	w.i8(g.Tangxin)
	w.i8(g.Rigidity)
	w.i8(g.Water)
	w.i8(g.LabelbyGrade)
	w.alignEnd(4)
}

func decodeGradeItemInfo(r *reader) GradeItemInfo {
	var g GradeItemInfo
	g.Exit = r.u32()
	g.MinSize = r.f32()
	g.MaxSize = r.f32()
	g.FruitNum = r.i32()
	g.ColorGrade = r.i8()
	g.ShapeSize = r.i8()
	g.Density = r.i8()
	g.FlawArea = r.i8()
	g.Bruise = r.i8()
	g.Rot = r.i8()
	g.Sugar = r.i8()
	g.Acidity = r.i8()
	g.Hollow = r.i8()
	g.Skin = r.i8()
	g.Brown = r.i8()
	g.Tangxin = r.i8()
	g.Rigidity = r.i8()
	g.Water = r.i8()
	g.LabelbyGrade = r.i8()
	r.alignEnd(4)
	return g
}

// GradeInfo is the full fruit-grading configuration record delivered by
// SIM_HMI_INSPECTION_ON. Restored from original_source in full: spec.md's
// distillation names the command but not the record's many factor tables.
type GradeInfo struct {
	Intervals          [MaxColorIntervalNum]ColorIntervalItem
	Percent            [MaxColorGradeNum * MaxColorIntervalNum]PercentInfo
	Grades             [MaxQualityGradeNum * MaxSizeGradeNum]GradeItemInfo
	ExitEnabled        [2]int32
	ColorIntervals     [2]int32
	ExitSwitchNum      [MaxExitNum]int32
	TagInfo            [ParasTagInfoNum]uint8
	FruitType          int32
	FruitName          [MaxFruitNameLength]uint8
	FlawAreaFactor     [MaxFlawAreaGradeNum * 2]uint32
	BruiseFactor       [MaxBruiseGradeNum * 2]uint32
	RotFactor          [MaxRotGradeNum * 2]uint32
	DensityFactor      [MaxDensityGradeNum]float32
	SugarFactor        [MaxSugarGradeNum]float32
	AcidityFactor      [MaxAcidityGradeNum]float32
	HollowFactor       [MaxHollowGradeNum]float32
	SkinFactor         [MaxSkinGradeNum]float32
	BrownFactor        [MaxBrownGradeNum]float32
	TangxinFactor      [MaxTangxinGradeNum]float32
	RigidityFactor     [MaxRigidityGradeNum]float32
	WaterFactor        [MaxWaterGradeNum]float32
	ShapeFactor        [MaxShapeGradeNum]float32
	SizeGradeName      [MaxSizeGradeNum * MaxTextLength]uint8
	QualityGradeName   [MaxQualityGradeNum * MaxTextLength]uint8
	DensityGradeName   [MaxDensityGradeNum * MaxTextLength]uint8
	ColorGradeName     [MaxColorGradeNum * MaxTextLength]uint8
	ShapeGradeName     [MaxShapeGradeNum * MaxTextLength]uint8
	FlawareaGradeName  [MaxFlawAreaGradeNum * MaxTextLength]uint8
	BruiseGradeName    [MaxBruiseGradeNum * MaxTextLength]uint8
	RotGradeName       [MaxRotGradeNum * MaxTextLength]uint8
	SugarGradeName     [MaxSugarGradeNum * MaxTextLength]uint8
	AcidityGradeName   [MaxAcidityGradeNum * MaxTextLength]uint8
	HollowGradeName    [MaxHollowGradeNum * MaxTextLength]uint8
	SkinGradeName      [MaxSkinGradeNum * MaxTextLength]uint8
	BrownGradeName     [MaxBrownGradeNum * MaxTextLength]uint8
	TangxinGradeName   [MaxTangxinGradeNum * MaxTextLength]uint8
	RigidityGradeName  [MaxFlawAreaGradeNum * MaxTextLength]uint8 // matches original's reuse of the flaw-area count
	WaterGradeName     [MaxWaterGradeNum * MaxTextLength]uint8
	ColorType          uint8
	LabelType          uint8
	LabelbyExit        [MaxExitNum]uint8
	SwitchLabel        [MaxExitNum]uint8
	SizeGradeNum       uint8
	QualityGradeNum    uint8
	ClassifyType       uint8
	CheckNum           int16
	ForceChannel       int16
}

func writeU8Array(w *writer, b []uint8) { w.bytes(b) }
func readU8Array(r *reader, n int, dst []uint8) { copy(dst, r.bytes(n)) }

func (g *GradeInfo) Encode() []byte {
	w := newWriter(4096)
	for _, it := range g.Intervals {
		w.bytes(it.Encode())
	}
	for _, p := range g.Percent {
		w.bytes(p.Encode())
	}
	w.align(4)
	for _, gi := range g.Grades {
		gi.encode(w)
	}
	for _, v := range g.ExitEnabled {
		w.i32(v)
	}
	for _, v := range g.ColorIntervals {
		w.i32(v)
	}
	for _, v := range g.ExitSwitchNum {
		w.i32(v)
	}
	writeU8Array(w, g.TagInfo[:])
	w.i32(g.FruitType)
	writeU8Array(w, g.FruitName[:])
	for _, v := range g.FlawAreaFactor {
		w.u32(v)
	}
	for _, v := range g.BruiseFactor {
		w.u32(v)
	}
	for _, v := range g.RotFactor {
		w.u32(v)
	}
	for _, v := range g.DensityFactor {
		w.f32(v)
	}
	for _, v := range g.SugarFactor {
		w.f32(v)
	}
	for _, v := range g.AcidityFactor {
		w.f32(v)
	}
	for _, v := range g.HollowFactor {
		w.f32(v)
	}
	for _, v := range g.SkinFactor {
		w.f32(v)
	}
	for _, v := range g.BrownFactor {
		w.f32(v)
	}
	for _, v := range g.TangxinFactor {
		w.f32(v)
	}
	for _, v := range g.RigidityFactor {
		w.f32(v)
	}
	for _, v := range g.WaterFactor {
		w.f32(v)
	}
	for _, v := range g.ShapeFactor {
		w.f32(v)
	}
	writeU8Array(w, g.SizeGradeName[:])
	writeU8Array(w, g.QualityGradeName[:])
	writeU8Array(w, g.DensityGradeName[:])
	writeU8Array(w, g.ColorGradeName[:])
	writeU8Array(w, g.ShapeGradeName[:])
	writeU8Array(w, g.FlawareaGradeName[:])
	writeU8Array(w, g.BruiseGradeName[:])
	writeU8Array(w, g.RotGradeName[:])
	writeU8Array(w, g.SugarGradeName[:])
	writeU8Array(w, g.AcidityGradeName[:])
	writeU8Array(w, g.HollowGradeName[:])
	writeU8Array(w, g.SkinGradeName[:])
	writeU8Array(w, g.BrownGradeName[:])
	writeU8Array(w, g.TangxinGradeName[:])
	writeU8Array(w, g.RigidityGradeName[:])
	writeU8Array(w, g.WaterGradeName[:])
	w.u8(g.ColorType)
	w.u8(g.LabelType)
	writeU8Array(w, g.LabelbyExit[:])
	writeU8Array(w, g.SwitchLabel[:])
	w.u8(g.SizeGradeNum)
	w.u8(g.QualityGradeNum)
	w.u8(g.ClassifyType)
	w.i16(g.CheckNum)
	w.i16(g.ForceChannel)
	w.alignEnd(4)
	return w.buf
}

func DecodeGradeInfo(b []byte) GradeInfo {
	var g GradeInfo
	r := newReader(b)
	for i := range g.Intervals {
		g.Intervals[i] = DecodeColorIntervalItem(r.bytes(ColorIntervalItemSize))
	}
	for i := range g.Percent {
		g.Percent[i] = DecodePercentInfo(r.bytes(PercentInfoSize))
	}
	r.align(4)
	for i := range g.Grades {
		g.Grades[i] = decodeGradeItemInfo(r)
	}
	for i := range g.ExitEnabled {
		g.ExitEnabled[i] = r.i32()
	}
	for i := range g.ColorIntervals {
		g.ColorIntervals[i] = r.i32()
	}
	for i := range g.ExitSwitchNum {
		g.ExitSwitchNum[i] = r.i32()
	}
	readU8Array(r, len(g.TagInfo), g.TagInfo[:])
	g.FruitType = r.i32()
	readU8Array(r, len(g.FruitName), g.FruitName[:])
	for i := range g.FlawAreaFactor {
		g.FlawAreaFactor[i] = r.u32()
	}
	for i := range g.BruiseFactor {
		g.BruiseFactor[i] = r.u32()
	}
	for i := range g.RotFactor {
		g.RotFactor[i] = r.u32()
	}
	for i := range g.DensityFactor {
		g.DensityFactor[i] = r.f32()
	}
	for i := range g.SugarFactor {
		g.SugarFactor[i] = r.f32()
	}
	for i := range g.AcidityFactor {
		g.AcidityFactor[i] = r.f32()
	}
	for i := range g.HollowFactor {
		g.HollowFactor[i] = r.f32()
	}
	for i := range g.SkinFactor {
		g.SkinFactor[i] = r.f32()
	}
	for i := range g.BrownFactor {
		g.BrownFactor[i] = r.f32()
	}
	for i := range g.TangxinFactor {
		g.TangxinFactor[i] = r.f32()
	}
	for i := range g.RigidityFactor {
		g.RigidityFactor[i] = r.f32()
	}
	for i := range g.WaterFactor {
		g.WaterFactor[i] = r.f32()
	}
	for i := range g.ShapeFactor {
		g.ShapeFactor[i] = r.f32()
	}
	readU8Array(r, len(g.SizeGradeName), g.SizeGradeName[:])
	readU8Array(r, len(g.QualityGradeName), g.QualityGradeName[:])
	readU8Array(r, len(g.DensityGradeName), g.DensityGradeName[:])
	readU8Array(r, len(g.ColorGradeName), g.ColorGradeName[:])
	readU8Array(r, len(g.ShapeGradeName), g.ShapeGradeName[:])
	readU8Array(r, len(g.FlawareaGradeName), g.FlawareaGradeName[:])
	readU8Array(r, len(g.BruiseGradeName), g.BruiseGradeName[:])
	readU8Array(r, len(g.RotGradeName), g.RotGradeName[:])
	readU8Array(r, len(g.SugarGradeName), g.SugarGradeName[:])
	readU8Array(r, len(g.AcidityGradeName), g.AcidityGradeName[:])
	readU8Array(r, len(g.HollowGradeName), g.HollowGradeName[:])
	readU8Array(r, len(g.SkinGradeName), g.SkinGradeName[:])
	readU8Array(r, len(g.BrownGradeName), g.BrownGradeName[:])
	readU8Array(r, len(g.TangxinGradeName), g.TangxinGradeName[:])
	readU8Array(r, len(g.RigidityGradeName), g.RigidityGradeName[:])
	readU8Array(r, len(g.WaterGradeName), g.WaterGradeName[:])
	g.ColorType = r.u8()
	g.LabelType = r.u8()
	readU8Array(r, len(g.LabelbyExit), g.LabelbyExit[:])
	readU8Array(r, len(g.SwitchLabel), g.SwitchLabel[:])
	g.SizeGradeNum = r.u8()
	g.QualityGradeNum = r.u8()
	g.ClassifyType = r.u8()
	g.CheckNum = r.i16()
	g.ForceChannel = r.i16()
	r.alignEnd(4)
	return g
}

// Statistics is the sorter's run statistics record (FSM_CMD_STATISTICS).
type Statistics struct {
	GradeCount         [MaxQualityGradeNum * MaxSizeGradeNum]uint32
	WeightGradeCount   [MaxQualityGradeNum * MaxSizeGradeNum]uint32
	ExitCount          [MaxExitNum]uint32
	ExitWeightCount    [MaxExitNum]uint32
	ChannelTotalCount  [MaxChannelNum]uint32
	ChannelWeightCount [MaxChannelNum]uint32
	SubsysID           int32
	BoxGradeCount      [MaxQualityGradeNum * MaxSizeGradeNum]int32
	BoxGradeWeight     [MaxQualityGradeNum * MaxSizeGradeNum]int32
	TotalCupNum        int32
	Interval           int32
	IntervalSumPerMin  int32
	CupState           uint16
	PulseInterval      uint16
	UnpushFruitCount   uint16
	NetState           uint8
	WeightSetting      uint8
	SCMState           uint8
	IQSNetState        uint8
	LockState          uint8
	ExitBoxNum         [MaxExitNum]uint16
	ExitWeight         [MaxExitNum]uint32
	Notice             [MaxNoticeLength]uint8
}

func (s *Statistics) Encode() []byte {
	w := newWriter(2048)
	s.encode(w)
	w.alignEnd(4)
	return w.buf
}

func (s *Statistics) encode(w *writer) {
	for _, v := range s.GradeCount {
		w.u32(v)
	}
	for _, v := range s.WeightGradeCount {
		w.u32(v)
	}
	for _, v := range s.ExitCount {
		w.u32(v)
	}
	for _, v := range s.ExitWeightCount {
		w.u32(v)
	}
	for _, v := range s.ChannelTotalCount {
		w.u32(v)
	}
	for _, v := range s.ChannelWeightCount {
		w.u32(v)
	}
	w.i32(s.SubsysID)
	for _, v := range s.BoxGradeCount {
		w.i32(v)
	}
	for _, v := range s.BoxGradeWeight {
		w.i32(v)
	}
	w.i32(s.TotalCupNum)
	w.i32(s.Interval)
	w.i32(s.IntervalSumPerMin)
	w.u16(s.CupState)
	w.u16(s.PulseInterval)
	w.u16(s.UnpushFruitCount)
	w.u8(s.NetState)
	w.u8(s.WeightSetting)
	w.u8(s.SCMState)
	w.u8(s.IQSNetState)
	w.u8(s.LockState)
	for _, v := range s.ExitBoxNum {
		w.u16(v)
	}
	for _, v := range s.ExitWeight {
		w.u32(v)
	}
	writeU8Array(w, s.Notice[:])
}

func DecodeStatistics(b []byte) Statistics {
	r := newReader(b)
	s := decodeStatistics(r)
	r.alignEnd(4)
	return s
}

func decodeStatistics(r *reader) Statistics {
	var s Statistics
	for i := range s.GradeCount {
		s.GradeCount[i] = r.u32()
	}
	for i := range s.WeightGradeCount {
		s.WeightGradeCount[i] = r.u32()
	}
	for i := range s.ExitCount {
		s.ExitCount[i] = r.u32()
	}
	for i := range s.ExitWeightCount {
		s.ExitWeightCount[i] = r.u32()
	}
	for i := range s.ChannelTotalCount {
		s.ChannelTotalCount[i] = r.u32()
	}
	for i := range s.ChannelWeightCount {
		s.ChannelWeightCount[i] = r.u32()
	}
	s.SubsysID = r.i32()
	for i := range s.BoxGradeCount {
		s.BoxGradeCount[i] = r.i32()
	}
	for i := range s.BoxGradeWeight {
		s.BoxGradeWeight[i] = r.i32()
	}
	s.TotalCupNum = r.i32()
	s.Interval = r.i32()
	s.IntervalSumPerMin = r.i32()
	s.CupState = r.u16()
	s.PulseInterval = r.u16()
	s.UnpushFruitCount = r.u16()
	s.NetState = r.u8()
	s.WeightSetting = r.u8()
	s.SCMState = r.u8()
	s.IQSNetState = r.u8()
	s.LockState = r.u8()
	for i := range s.ExitBoxNum {
		s.ExitBoxNum[i] = r.u16()
	}
	for i := range s.ExitWeight {
		s.ExitWeight[i] = r.u32()
	}
	readU8Array(r, len(s.Notice), s.Notice[:])
	return s
}

// BroadcastStatistics rides the WAM broadcast group: run statistics plus
// presentation metadata. Supplemented from original_source.
type BroadcastStatistics struct {
	Statistics           Statistics
	StartTime            [MaxTextLength]uint8
	SeparationEfficiency float32
	RealWeightCount      float32
	ProgramName          [MaxTextLength]uint8
	LabelName            [MaxLabelNum * MaxTextLength]uint8
}

func (b *BroadcastStatistics) Encode() []byte {
	w := newWriter(2048)
	b.Statistics.encode(w)
	w.align(4)
	writeU8Array(w, b.StartTime[:])
	w.f32(b.SeparationEfficiency)
	w.f32(b.RealWeightCount)
	writeU8Array(w, b.ProgramName[:])
	writeU8Array(w, b.LabelName[:])
	w.alignEnd(4)
	return w.buf
}

func DecodeBroadcastStatistics(raw []byte) BroadcastStatistics {
	var b BroadcastStatistics
	r := newReader(raw)
	b.Statistics = decodeStatistics(r)
	r.align(4)
	readU8Array(r, len(b.StartTime), b.StartTime[:])
	b.SeparationEfficiency = r.f32()
	b.RealWeightCount = r.f32()
	readU8Array(r, len(b.ProgramName), b.ProgramName[:])
	readU8Array(r, len(b.LabelName), b.LabelName[:])
	r.alignEnd(4)
	return b
}

// BroadcastSysConfig rides the WAM broadcast group: sys config plus
// presentation metadata. Supplemented from original_source.
type BroadcastSysConfig struct {
	SysConfig       SysConfig
	Language        int32
	ExitDisplayType int32
	DisplayName     [MaxExitNum * MaxExitDisplayNameLength]uint8
}

func (b *BroadcastSysConfig) Encode() []byte {
	w := newWriter(4096)
	w.bytes(b.SysConfig.Encode())
	w.i32(b.Language)
	w.i32(b.ExitDisplayType)
	writeU8Array(w, b.DisplayName[:])
	w.alignEnd(4)
	return w.buf
}

func DecodeBroadcastSysConfig(raw []byte) BroadcastSysConfig {
	var b BroadcastSysConfig
	r := newReader(raw)
	b.SysConfig = DecodeSysConfig(r.bytes(SysConfigSize))
	r.align(4)
	b.Language = r.i32()
	b.ExitDisplayType = r.i32()
	readU8Array(r, len(b.DisplayName), b.DisplayName[:])
	r.alignEnd(4)
	return b
}

// TrackingData carries one cup's in-flight weighing trace.
type TrackingData struct {
	VehicleID    int32
	FruitWeight  float32
	VehicleWeight float32
	ADFruit      uint16
	ADVehicle    uint16
}

const TrackingDataSize = 16

func (t TrackingData) encode(w *writer) {
	w.i32(t.VehicleID)
	w.f32(t.FruitWeight)
	w.f32(t.VehicleWeight)
	w.u16(t.ADFruit)
	w.u16(t.ADVehicle)
}

func decodeTrackingData(r *reader) TrackingData {
	var t TrackingData
	t.VehicleID = r.i32()
	t.FruitWeight = r.f32()
	t.VehicleWeight = r.f32()
	t.ADFruit = r.u16()
	t.ADVehicle = r.u16()
	return t
}

// WeightStat carries one cup's weighing-cell calibration snapshot.
type WeightStat struct {
	CupAverageWeight float32
	AD0              uint16
	AD1              uint16
	StandardAD0      uint16
	StandardAD1      uint16
}

func (s WeightStat) encode(w *writer) {
	w.f32(s.CupAverageWeight)
	w.u16(s.AD0)
	w.u16(s.AD1)
	w.u16(s.StandardAD0)
	w.u16(s.StandardAD1)
	w.alignEnd(4)
}

func decodeWeightStat(r *reader) WeightStat {
	var s WeightStat
	s.CupAverageWeight = r.f32()
	s.AD0 = r.u16()
	s.AD1 = r.u16()
	s.StandardAD0 = r.u16()
	s.StandardAD1 = r.u16()
	r.alignEnd(4)
	return s
}

// WeightResult is the per-cup weighing result (FSM_CMD_WEIGHTINFO /
// WAM_CMD_WEIGHTINFO).
type WeightResult struct {
	Data           TrackingData
	Paras          WeightStat
	ChannelID      int32
	VehicleWeight0 float32
	VehicleWeight1 float32
	State          uint8
}

func (w2 *WeightResult) Encode() []byte {
	w := newWriter(64)
	w2.Data.encode(w)
	w2.Paras.encode(w)
	w.i32(w2.ChannelID)
	w.f32(w2.VehicleWeight0)
	w.f32(w2.VehicleWeight1)
	w.u8(w2.State)
	w.alignEnd(4)
	return w.buf
}

func DecodeWeightResult(b []byte) WeightResult {
	var w WeightResult
	r := newReader(b)
	w.Data = decodeTrackingData(r)
	w.Paras = decodeWeightStat(r)
	w.ChannelID = r.i32()
	w.VehicleWeight0 = r.f32()
	w.VehicleWeight1 = r.f32()
	w.State = r.u8()
	r.alignEnd(4)
	return w
}

// FruitVisionParam is the color-camera half of a per-fruit grading result.
type FruitVisionParam struct {
	ColorRate0    uint32
	ColorRate1    uint32
	ColorRate2    uint32
	Area          uint32
	FlawArea      uint32
	Volume        uint32
	FlawNum       uint32
	MaxR          float32
	MinR          float32
	SelectBasis   float32
	DiameterRatio float32
	MinDRatio     float32
}

func (f FruitVisionParam) encode(w *writer) {
	w.u32(f.ColorRate0)
	w.u32(f.ColorRate1)
	w.u32(f.ColorRate2)
	w.u32(f.Area)
	w.u32(f.FlawArea)
	w.u32(f.Volume)
	w.u32(f.FlawNum)
	w.f32(f.MaxR)
	w.f32(f.MinR)
	w.f32(f.SelectBasis)
	w.f32(f.DiameterRatio)
	w.f32(f.MinDRatio)
}

func decodeFruitVisionParam(r *reader) FruitVisionParam {
	var f FruitVisionParam
	f.ColorRate0 = r.u32()
	f.ColorRate1 = r.u32()
	f.ColorRate2 = r.u32()
	f.Area = r.u32()
	f.FlawArea = r.u32()
	f.Volume = r.u32()
	f.FlawNum = r.u32()
	f.MaxR = r.f32()
	f.MinR = r.f32()
	f.SelectBasis = r.f32()
	f.DiameterRatio = r.f32()
	f.MinDRatio = r.f32()
	return f
}

// FruitUVParam is the UV-camera half of a per-fruit grading result.
type FruitUVParam struct {
	BruiseArea uint32
	BruiseNum  uint32
	RotArea    uint32
	RotNum     uint32
	Rigidity   uint32
	Water      uint32
	TimeTag    uint32
}

func (f FruitUVParam) encode(w *writer) {
	w.u32(f.BruiseArea)
	w.u32(f.BruiseNum)
	w.u32(f.RotArea)
	w.u32(f.RotNum)
	w.u32(f.Rigidity)
	w.u32(f.Water)
	w.u32(f.TimeTag)
}

func decodeFruitUVParam(r *reader) FruitUVParam {
	var f FruitUVParam
	f.BruiseArea = r.u32()
	f.BruiseNum = r.u32()
	f.RotArea = r.u32()
	f.RotNum = r.u32()
	f.Rigidity = r.u32()
	f.Water = r.u32()
	f.TimeTag = r.u32()
	return f
}

// NIRParam is the near-infrared half of a per-fruit grading result.
type NIRParam struct {
	Sugar    float32
	Acidity  float32
	Hollow   float32
	Skin     float32
	Brown    float32
	Tangxin  float32
	TimeTag  uint32
}

func (n NIRParam) encode(w *writer) {
	w.f32(n.Sugar)
	w.f32(n.Acidity)
	w.f32(n.Hollow)
	w.f32(n.Skin)
	w.f32(n.Brown)
	w.f32(n.Tangxin)
	w.u32(n.TimeTag)
}

func decodeNIRParam(r *reader) NIRParam {
	var n NIRParam
	n.Sugar = r.f32()
	n.Acidity = r.f32()
	n.Hollow = r.f32()
	n.Skin = r.f32()
	n.Brown = r.f32()
	n.Tangxin = r.f32()
	n.TimeTag = r.u32()
	return n
}

// FruitParam is one channel's full grading result for a single fruit.
type FruitParam struct {
	Vision     FruitVisionParam
	UV         FruitUVParam
	NIR        NIRParam
	Weight     float32
	Density    float32
	Grade      uint32
	WhichExit  uint8
}

func (f FruitParam) encode(w *writer) {
	f.Vision.encode(w)
	f.UV.encode(w)
	f.NIR.encode(w)
	w.f32(f.Weight)
	w.f32(f.Density)
	w.u32(f.Grade)
	w.u8(f.WhichExit)
	w.alignEnd(4)
}

func decodeFruitParam(r *reader) FruitParam {
	var f FruitParam
	f.Vision = decodeFruitVisionParam(r)
	f.UV = decodeFruitUVParam(r)
	f.NIR = decodeNIRParam(r)
	f.Weight = r.f32()
	f.Density = r.f32()
	f.Grade = r.u32()
	f.WhichExit = r.u8()
	r.alignEnd(4)
	return f
}

// FruitGradeInfo is the per-channel grading payload (FSM_CMD_GRADEINFO).
type FruitGradeInfo struct {
	Param   [ChannelNum]FruitParam
	RouteID int32
}

func (g *FruitGradeInfo) Encode() []byte {
	w := newWriter(256)
	for _, p := range g.Param {
		p.encode(w)
	}
	w.i32(g.RouteID)
	w.alignEnd(4)
	return w.buf
}

func DecodeFruitGradeInfo(b []byte) FruitGradeInfo {
	var g FruitGradeInfo
	r := newReader(b)
	for i := range g.Param {
		g.Param[i] = decodeFruitParam(r)
	}
	g.RouteID = r.i32()
	r.alignEnd(4)
	return g
}

// WhiteBalanceMean is the measured RGB mean used to derive white-balance
// coefficients.
type WhiteBalanceMean struct {
	MeanR, MeanG, MeanB int32
}

func (m WhiteBalanceMean) encode(w *writer) {
	w.i32(m.MeanR)
	w.i32(m.MeanG)
	w.i32(m.MeanB)
}

func decodeWhiteBalanceMean(r *reader) WhiteBalanceMean {
	return WhiteBalanceMean{MeanR: r.i32(), MeanG: r.i32(), MeanB: r.i32()}
}

// WhiteBalanceCoefficient is the IPM_CMD_AUTOBALANCE_COEFFICIENT payload.
type WhiteBalanceCoefficient struct {
	BGR  BGR
	Mean WhiteBalanceMean
}

func (c *WhiteBalanceCoefficient) Encode() []byte {
	w := newWriter(16)
	w.bytes(c.BGR.Encode())
	w.align(4)
	c.Mean.encode(w)
	w.alignEnd(4)
	return w.buf
}

func DecodeWhiteBalanceCoefficient(b []byte) WhiteBalanceCoefficient {
	var c WhiteBalanceCoefficient
	r := newReader(b)
	c.BGR = DecodeBGR(r.bytes(BGRSize))
	r.align(4)
	c.Mean = decodeWhiteBalanceMean(r)
	r.alignEnd(4)
	return c
}

// ShutterAdjust is the IPM_CMD_SHUTTER_ADJUST payload: per-camera exposure
// targets for the color and near-infrared banks.
type ShutterAdjust struct {
	ColorY [MaxColorCamera]uint16
	ColorH [MaxColorCamera]uint16
	NIR1Y  [MaxColorCamera]uint16
	NIR2Y  [MaxColorCamera]uint16
}

func (s *ShutterAdjust) Encode() []byte {
	w := newWriter(32)
	for _, v := range s.ColorY {
		w.u16(v)
	}
	for _, v := range s.ColorH {
		w.u16(v)
	}
	for _, v := range s.NIR1Y {
		w.u16(v)
	}
	for _, v := range s.NIR2Y {
		w.u16(v)
	}
	w.alignEnd(4)
	return w.buf
}

func DecodeShutterAdjust(b []byte) ShutterAdjust {
	var s ShutterAdjust
	r := newReader(b)
	for i := range s.ColorY {
		s.ColorY[i] = r.u16()
	}
	for i := range s.ColorH {
		s.ColorH[i] = r.u16()
	}
	for i := range s.NIR1Y {
		s.NIR1Y[i] = r.u16()
	}
	for i := range s.NIR2Y {
		s.NIR2Y[i] = r.u16()
	}
	r.alignEnd(4)
	return s
}

// WaveInfo is the FSM_CMD_WAVEINFO / WAM_CMD_WAVEINFO waveform sample dump.
type WaveInfo struct {
	ChannelID    int32
	Waveform0    [WaveformSamples]uint16
	Waveform1    [WaveformSamples]uint16
	FruitWeight  float32
}

func (w2 *WaveInfo) Encode() []byte {
	w := newWriter(1100)
	w.i32(w2.ChannelID)
	for _, v := range w2.Waveform0 {
		w.u16(v)
	}
	for _, v := range w2.Waveform1 {
		w.u16(v)
	}
	w.f32(w2.FruitWeight)
	w.alignEnd(4)
	return w.buf
}

func DecodeWaveInfo(b []byte) WaveInfo {
	var w WaveInfo
	r := newReader(b)
	w.ChannelID = r.i32()
	for i := range w.Waveform0 {
		w.Waveform0[i] = r.u16()
	}
	for i := range w.Waveform1 {
		w.Waveform1[i] = r.u16()
	}
	w.FruitWeight = r.f32()
	r.alignEnd(4)
	return w
}
