package wire

import (
	"os"
	"testing"
)

func TestSysConfigRoundTrip(t *testing.T) {
	in := SysConfig{Width: 1920, Height: 1080, PacketSize: 4096, SubsysNum: 4, ExitNum: 48}
	in.ExitState[0] = 7
	in.CameraDelay[3] = 12345
	b := in.Encode()
	if len(b) != SysConfigSize {
		t.Fatalf("SysConfig size = %d, want %d", len(b), SysConfigSize)
	}
	out := DecodeSysConfig(b)
	if out.Width != in.Width || out.Height != in.Height || out.ExitState[0] != 7 || out.CameraDelay[3] != 12345 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestColorIntervalItemRoundTrip(t *testing.T) {
	in := ColorIntervalItem{MinU: 1, MaxU: 2, MinV: 3, MaxV: 4}
	b := in.Encode()
	if len(b) != ColorIntervalItemSize {
		t.Fatalf("size = %d, want %d", len(b), ColorIntervalItemSize)
	}
	if out := DecodeColorIntervalItem(b); out != in {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestGradeItemInfoPadsToFourByteStride(t *testing.T) {
	g := GradeItemInfo{Exit: 3, MinSize: 1.5, MaxSize: 2.5, FruitNum: 9}
	w := newWriter(64)
	g.encode(w)
	if len(w.buf)%4 != 0 {
		t.Fatalf("GradeItemInfo must pad to a 4-byte stride, got %d bytes", len(w.buf))
	}
	r := newReader(w.buf)
	out := decodeGradeItemInfo(r)
	if out.Exit != g.Exit || out.MinSize != g.MinSize || out.FruitNum != g.FruitNum {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestGradeInfoRoundTrip(t *testing.T) {
	var g GradeInfo
	g.FruitType = 5
	g.Grades[0].FruitNum = 42
	g.Grades[len(g.Grades)-1].MinSize = 3.25
	g.ColorType = 1
	g.CheckNum = -7
	b := g.Encode()
	out := DecodeGradeInfo(b)
	if out.FruitType != g.FruitType || out.Grades[0].FruitNum != 42 {
		t.Fatalf("round trip mismatch on head fields: %+v", out)
	}
	if out.Grades[len(out.Grades)-1].MinSize != 3.25 {
		t.Fatalf("round trip mismatch on tail grade: %+v", out.Grades[len(out.Grades)-1])
	}
	if out.CheckNum != -7 {
		t.Fatalf("round trip mismatch on CheckNum: %d", out.CheckNum)
	}
}

func TestStatisticsRoundTrip(t *testing.T) {
	var s Statistics
	s.SubsysID = 2
	s.TotalCupNum = 100
	s.CupState = 0xBEEF
	s.Notice[0] = 'x'
	b := s.Encode()
	out := DecodeStatistics(b)
	if out.SubsysID != 2 || out.TotalCupNum != 100 || out.CupState != 0xBEEF || out.Notice[0] != 'x' {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestBroadcastStatisticsEmbedsStatisticsAtOffsetZero(t *testing.T) {
	var b BroadcastStatistics
	b.Statistics.SubsysID = 9
	b.SeparationEfficiency = 0.5
	encoded := b.Encode()
	inner := DecodeStatistics(encoded[:len((&Statistics{}).Encode())])
	if inner.SubsysID != 9 {
		t.Fatalf("Statistics must be encoded first inside BroadcastStatistics, got %+v", inner)
	}
	out := DecodeBroadcastStatistics(encoded)
	if out.Statistics.SubsysID != 9 || out.SeparationEfficiency != 0.5 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestWeightResultRoundTrip(t *testing.T) {
	in := WeightResult{
		Data:      TrackingData{VehicleID: 7, FruitWeight: 120.5},
		ChannelID: 1,
		State:     2,
	}
	b := in.Encode()
	out := DecodeWeightResult(b)
	if out.Data.VehicleID != 7 || out.Data.FruitWeight != 120.5 || out.ChannelID != 1 || out.State != 2 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestFruitGradeInfoRoundTrip(t *testing.T) {
	var in FruitGradeInfo
	in.RouteID = 11
	in.Param[0].Weight = 88.25
	in.Param[1].WhichExit = 6
	b := in.Encode()
	out := DecodeFruitGradeInfo(b)
	if out.RouteID != 11 || out.Param[0].Weight != 88.25 || out.Param[1].WhichExit != 6 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestWhiteBalanceCoefficientRoundTrip(t *testing.T) {
	in := WhiteBalanceCoefficient{BGR: BGR{B: 1, G: 2, R: 3}, Mean: WhiteBalanceMean{MeanR: 10, MeanG: 20, MeanB: 30}}
	b := in.Encode()
	out := DecodeWhiteBalanceCoefficient(b)
	if out.BGR != in.BGR || out.Mean != in.Mean {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestShutterAdjustRoundTrip(t *testing.T) {
	var in ShutterAdjust
	in.ColorY[0] = 111
	in.NIR2Y[2] = 222
	b := in.Encode()
	out := DecodeShutterAdjust(b)
	if out.ColorY[0] != 111 || out.NIR2Y[2] != 222 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestWaveInfoRoundTrip(t *testing.T) {
	var in WaveInfo
	in.ChannelID = 3
	in.Waveform0[0] = 500
	in.Waveform1[WaveformSamples-1] = 999
	in.FruitWeight = 42.5
	b := in.Encode()
	out := DecodeWaveInfo(b)
	if out.ChannelID != 3 || out.Waveform0[0] != 500 || out.Waveform1[WaveformSamples-1] != 999 || out.FruitWeight != 42.5 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

// TestBodySizeForMatchesEncodedLength is the Go equivalent of the source's
// tools/offsetof_check.cpp: the command length map's declared size for
// every fixed-body command must equal the record's actual encoded length.
func TestBodySizeForMatchesEncodedLength(t *testing.T) {
	cases := []struct {
		cmd  int32
		want uint32
	}{
		{FSMCmdConfig, uint32(SysConfigSize)},
		{FSMCmdStatistics, statisticsSize},
		{FSMCmdGradeInfo, fruitGradeInfoSize},
		{FSMCmdWeightInfo, weightResultSize},
		{FSMCmdWaveInfo, waveInfoSize},
		{WAMCmdWeightInfoGlobal, weightGlobalSize},
		{WAMCmdBroadcastStatistics, broadcastStatisticsSize},
		{WAMCmdBroadcastSysConfig, broadcastSysConfigSize},
		{SIMHmiInspectionOn, gradeInfoSize},
		{IPMCmdAutobalanceCoefficient, whiteBalanceCoefficientSize},
		{IPMCmdShutterAdjust, shutterAdjustSize},
	}
	for _, c := range cases {
		size, needsPrefix := BodySizeFor(c.cmd)
		if needsPrefix {
			t.Fatalf("cmd %#x: unexpected length-prefix flag", c.cmd)
		}
		if size != c.want {
			t.Fatalf("cmd %#x: size = %d, want %d", c.cmd, size, c.want)
		}
	}
}

func TestBodySizeForImageCommandsNeedPrefix(t *testing.T) {
	for _, cmd := range []int32{IPMCmdImage, IPMCmdImageSplice, IPMCmdImageSpot} {
		size, needsPrefix := BodySizeFor(cmd)
		if !needsPrefix {
			t.Fatalf("cmd %#x: expected needs-length-prefix", cmd)
		}
		if size != 0 {
			t.Fatalf("cmd %#x: expected size 0 alongside prefix flag, got %d", cmd, size)
		}
	}
}

func TestBodySizeForUnknownCommandIsZero(t *testing.T) {
	size, needsPrefix := BodySizeFor(0x7777)
	if size != 0 || needsPrefix {
		t.Fatalf("unknown command must resolve to (0, false), got (%d, %v)", size, needsPrefix)
	}
}

func TestCommandOverlayAddsUnknownCommand(t *testing.T) {
	tmp := t.TempDir() + "/overlay.yaml"
	yamlBody := "commands:\n  4660:\n    size: 16\n    needs_length_prefix: false\n"
	if err := os.WriteFile(tmp, []byte(yamlBody), 0o644); err != nil {
		t.Fatal(err)
	}
	o, err := LoadCommandOverlay(tmp)
	if err != nil {
		t.Fatalf("load overlay: %v", err)
	}
	o.Apply()
	size, needsPrefix := BodySizeFor(0x1234)
	if size != 16 || needsPrefix {
		t.Fatalf("overlay entry not applied: (%d, %v)", size, needsPrefix)
	}
}
