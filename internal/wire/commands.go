package wire

// Command ids for the FSM/IPM/ACS groups, restored verbatim from
// original_source/Tcp/structures.h. The WAM/SIM/HMI groups are dispatched
// by native_module.cpp but their enum declarations were never part of the
// retrieved source tree; those ids are assigned block values consistent
// with the FSM/IPM/ACS numbering convention and recorded as such in
// DESIGN.md.
const (
	FSMCmdConfig            = 0x1000
	FSMCmdStatistics        = 0x1001
	FSMCmdGradeInfo         = 0x1002
	FSMCmdWeightInfo        = 0x1003
	FSMCmdWaveInfo          = 0x1004
	FSMCmdVersionError      = 0x1005
	FSMCmdBurnFlashProgress = 0x1006
	FSMCmdBurnDebug         = 0x1007
	FSMCmdGetVersion        = 0x1008
	FSMCmdBootFlashProgress = 0x1009

	IPMCmdImage                  = 0x3000
	IPMCmdAutobalanceCoefficient = 0x3001
	IPMCmdImageSplice            = 0x3002
	IPMCmdImageSpot              = 0x3003
	IPMCmdShutterAdjust          = 0x3004

	ACSHmiExitStop = 0x8000

	WAMCmdRepWAMInfo          = 0x2000
	WAMCmdWeightInfo          = 0x2001
	WAMCmdWaveInfo            = 0x2002
	WAMCmdWeightInfoGlobal    = 0x2003
	WAMCmdBroadcastStatistics = 0x2004
	WAMCmdBroadcastSysConfig  = 0x2005

	SIMHmiDisplayOn     = 0x4000
	SIMHmiInspectionOff = 0x4001
	SIMHmiInspectionOn  = 0x4002
)

// WeightGlobal is the aggregate weight summary behind WAM_CMD_WEIGHT_INFO_GLOBAL.
// No definition for StWeightGlobal was present in the retrieved source;
// this mirrors the per-exit weight fields already carried by Statistics.
type WeightGlobal struct {
	ExitWeight  [MaxExitNum]uint32
	TotalWeight uint32
	CupCount    int32
}

func (g *WeightGlobal) Encode() []byte {
	w := newWriter(208)
	for _, v := range g.ExitWeight {
		w.u32(v)
	}
	w.u32(g.TotalWeight)
	w.i32(g.CupCount)
	w.alignEnd(4)
	return w.buf
}

func DecodeWeightGlobal(b []byte) WeightGlobal {
	var g WeightGlobal
	r := newReader(b)
	for i := range g.ExitWeight {
		g.ExitWeight[i] = r.u32()
	}
	g.TotalWeight = r.u32()
	g.CupCount = r.i32()
	r.alignEnd(4)
	return g
}

// bodySpec describes one command id's entry in the command length map:
// either a fixed body size, or a request to read a 4-byte length prefix
// before the body (the three IPM image commands).
type bodySpec struct {
	size        uint32
	needsPrefix bool
}

var commandLengthMap = map[int32]bodySpec{
	FSMCmdConfig:            {size: uint32(SysConfigSize)},
	FSMCmdStatistics:        {size: statisticsSize},
	FSMCmdGradeInfo:         {size: fruitGradeInfoSize},
	FSMCmdWeightInfo:        {size: weightResultSize},
	FSMCmdWaveInfo:          {size: waveInfoSize},
	FSMCmdVersionError:      {size: 4},
	FSMCmdBurnFlashProgress: {size: 4},
	FSMCmdBootFlashProgress: {size: 4},
	FSMCmdGetVersion:        {size: ByteNumFSMVersion},

	WAMCmdRepWAMInfo:          {size: ByteNumFSMVersion},
	WAMCmdWeightInfo:          {size: weightResultSize},
	WAMCmdWaveInfo:            {size: waveInfoSize},
	WAMCmdWeightInfoGlobal:    {size: weightGlobalSize},
	WAMCmdBroadcastStatistics: {size: broadcastStatisticsSize},
	WAMCmdBroadcastSysConfig:  {size: broadcastSysConfigSize},

	SIMHmiDisplayOn:     {size: 0},
	SIMHmiInspectionOff: {size: 0},
	SIMHmiInspectionOn:  {size: gradeInfoSize},

	IPMCmdImage:                  {needsPrefix: true},
	IPMCmdImageSplice:            {needsPrefix: true},
	IPMCmdImageSpot:              {needsPrefix: true},
	IPMCmdAutobalanceCoefficient: {size: whiteBalanceCoefficientSize},
	IPMCmdShutterAdjust:          {size: shutterAdjustSize},

	ACSHmiExitStop: {size: 4},
}

// sizeof-equivalents computed once by encoding a zero-value record, the
// same trick applied across this package rather than hand-tracked offsets.
var (
	statisticsSize              = uint32(len((&Statistics{}).Encode()))
	fruitGradeInfoSize          = uint32(len((&FruitGradeInfo{}).Encode()))
	weightResultSize            = uint32(len((&WeightResult{}).Encode()))
	waveInfoSize                = uint32(len((&WaveInfo{}).Encode()))
	weightGlobalSize            = uint32(len((&WeightGlobal{}).Encode()))
	broadcastStatisticsSize     = uint32(len((&BroadcastStatistics{}).Encode()))
	broadcastSysConfigSize      = uint32(len((&BroadcastSysConfig{}).Encode()))
	gradeInfoSize               = uint32(len((&GradeInfo{}).Encode()))
	whiteBalanceCoefficientSize = uint32(len((&WhiteBalanceCoefficient{}).Encode()))
	shutterAdjustSize           = uint32(len((&ShutterAdjust{}).Encode()))
)

// BodySizeFor implements the command length map lookup from spec.md §3.2.
// An id absent from the table returns (0, false): unknown-command, no
// body expected, event still delivered.
func BodySizeFor(cmdID int32) (size uint32, needsLengthPrefix bool) {
	spec, ok := commandLengthMap[cmdID]
	if !ok {
		return 0, false
	}
	return spec.size, spec.needsPrefix
}
