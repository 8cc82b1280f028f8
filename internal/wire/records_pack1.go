package wire

// Tight pack-1 records: every field sits back to back with no alignment
// padding, matching the legacy #pragma pack(push, 1) section.

// SysConfig is the sorter's machine configuration record (FSM_CMD_CONFIG).
type SysConfig struct {
	ExitState         [MaxExitNum * 2 * 4]uint8
	ChannelInfo       [MaxSubsysNum]uint8
	ImageUV           [MaxSubsysNum]uint8
	DataRegistration  [MaxSubsysNum]uint8
	ImageSugar        [MaxSubsysNum]uint8
	ImageUltrasonic   [MaxSubsysNum]uint8
	CameraDelay       [MaxCameraNum * 2]int32
	Width             int32
	Height            int32
	PacketSize        int32
	SystemInfo        uint16
	SubsysNum         uint8
	ExitNum           uint8
	ClassificationInfo uint8
	MultiFreq         uint8
	CameraType        uint8
	CIRClassifyType   uint8
	UVClassifyType    uint8
	WeightClassifyType uint8
	InternalClassifyType uint8
	UltrasonicClassifyType uint8
	IfWIFIEnable      uint8
	CheckExit         uint8
	CheckNum          uint8
	IQSEnable         uint8
}

// SysConfigSize is sizeof(StSysConfig) under pack(1).
const SysConfigSize = MaxExitNum*2*4 + MaxSubsysNum*5 + MaxCameraNum*2*4 + 4*3 + 2 + 14

func (c *SysConfig) Encode() []byte {
	w := newWriter(SysConfigSize)
	w.bytes(c.ExitState[:])
	w.bytes(c.ChannelInfo[:])
	w.bytes(c.ImageUV[:])
	w.bytes(c.DataRegistration[:])
	w.bytes(c.ImageSugar[:])
	w.bytes(c.ImageUltrasonic[:])
	for _, v := range c.CameraDelay {
		w.i32raw(v)
	}
	w.i32raw(c.Width)
	w.i32raw(c.Height)
	w.i32raw(c.PacketSize)
	w.u16raw(c.SystemInfo)
	w.u8(c.SubsysNum)
	w.u8(c.ExitNum)
	w.u8(c.ClassificationInfo)
	w.u8(c.MultiFreq)
	w.u8(c.CameraType)
	w.u8(c.CIRClassifyType)
	w.u8(c.UVClassifyType)
	w.u8(c.WeightClassifyType)
	w.u8(c.InternalClassifyType)
	w.u8(c.UltrasonicClassifyType)
	w.u8(c.IfWIFIEnable)
	w.u8(c.CheckExit)
	w.u8(c.CheckNum)
	w.u8(c.IQSEnable)
	return w.buf
}

func DecodeSysConfig(b []byte) SysConfig {
	var c SysConfig
	r := newReader(b)
	copy(c.ExitState[:], r.bytes(len(c.ExitState)))
	copy(c.ChannelInfo[:], r.bytes(len(c.ChannelInfo)))
	copy(c.ImageUV[:], r.bytes(len(c.ImageUV)))
	copy(c.DataRegistration[:], r.bytes(len(c.DataRegistration)))
	copy(c.ImageSugar[:], r.bytes(len(c.ImageSugar)))
	copy(c.ImageUltrasonic[:], r.bytes(len(c.ImageUltrasonic)))
	for i := range c.CameraDelay {
		c.CameraDelay[i] = r.i32raw()
	}
	c.Width = r.i32raw()
	c.Height = r.i32raw()
	c.PacketSize = r.i32raw()
	c.SystemInfo = r.u16raw()
	c.SubsysNum = r.u8()
	c.ExitNum = r.u8()
	c.ClassificationInfo = r.u8()
	c.MultiFreq = r.u8()
	c.CameraType = r.u8()
	c.CIRClassifyType = r.u8()
	c.UVClassifyType = r.u8()
	c.WeightClassifyType = r.u8()
	c.InternalClassifyType = r.u8()
	c.UltrasonicClassifyType = r.u8()
	c.IfWIFIEnable = r.u8()
	c.CheckExit = r.u8()
	c.CheckNum = r.u8()
	c.IQSEnable = r.u8()
	return c
}

// ColorIntervalItem bounds one UV color classification interval.
type ColorIntervalItem struct {
	MinU, MaxU, MinV, MaxV uint8
}

const ColorIntervalItemSize = 4

func (c ColorIntervalItem) Encode() []byte {
	return []byte{c.MinU, c.MaxU, c.MinV, c.MaxV}
}

func DecodeColorIntervalItem(b []byte) ColorIntervalItem {
	return ColorIntervalItem{MinU: b[0], MaxU: b[1], MinV: b[2], MaxV: b[3]}
}

// PercentInfo bounds a grading percentile.
type PercentInfo struct {
	Max, Min uint8
}

const PercentInfoSize = 2

func (p PercentInfo) Encode() []byte { return []byte{p.Max, p.Min} }

func DecodePercentInfo(b []byte) PercentInfo { return PercentInfo{Max: b[0], Min: b[1]} }

// BGR is a raw blue/green/red sample used by white-balance records.
type BGR struct {
	B, G, R uint8
}

const BGRSize = 3

func (c BGR) Encode() []byte { return []byte{c.B, c.G, c.R} }

func DecodeBGR(b []byte) BGR { return BGR{B: b[0], G: b[1], R: b[2]} }
