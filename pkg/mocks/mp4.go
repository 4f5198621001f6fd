package mocks

import (
	"bytes"
	"fmt"

	"github.com/Eyevinn/mp4ff/av1"
	"github.com/Eyevinn/mp4ff/avc"
	"github.com/Eyevinn/mp4ff/mp4"
)

// MP4Options describes a synthetic fragmented MP4 built by BuildMP4.
type MP4Options struct {
	// SampleEntry is "av01" or "avc1".
	SampleEntry string
	Frames      int
	Timescale   uint32
	// FrameDur is the duration of each sample in timescale units.
	FrameDur uint32
	Width    int
	Height   int
}

// BuildMP4 writes a fragmented MP4 with one video track and empty samples. The payload is
// not decodable; only the box structure and timing are meaningful.
func BuildMP4(opts MP4Options) ([]byte, error) {
	if opts.Timescale == 0 {
		opts.Timescale = 30000
	}
	if opts.FrameDur == 0 {
		opts.FrameDur = 1000
	}
	trackID := uint32(1)

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(opts.Timescale, "video", "und")
	trak := init.Moov.Trak

	width, height := uint16(opts.Width), uint16(opts.Height)
	var entry *mp4.VisualSampleEntryBox
	switch opts.SampleEntry {
	case "avc1":
		avcC := &mp4.AvcCBox{DecConfRec: avc.DecConfRec{
			AVCProfileIndication: 66,
			ProfileCompatibility: 0xc0,
			AVCLevelIndication:   30,
			NoTrailingInfo:       true,
		}}
		entry = mp4.CreateVisualSampleEntryBox("avc1", width, height, avcC)
	case "av01", "":
		av1C := &mp4.Av1CBox{CodecConfRec: av1.CodecConfRec{
			Version:            1,
			SeqLevelIdx0:       8,
			ChromaSubsamplingX: 1,
			ChromaSubsamplingY: 1,
		}}
		entry = mp4.CreateVisualSampleEntryBox("av01", width, height, av1C)
	default:
		return nil, fmt.Errorf("unsupported sample entry %q", opts.SampleEntry)
	}
	trak.Mdia.Minf.Stbl.Stsd.AddChild(entry)
	trak.Tkhd.Width = mp4.Fixed32(opts.Width << 16)
	trak.Tkhd.Height = mp4.Fixed32(opts.Height << 16)

	frag, err := mp4.CreateFragment(1, trackID)
	if err != nil {
		return nil, fmt.Errorf("create fragment: %w", err)
	}
	payload := []byte{0, 0, 0, 1, 0}
	for i := 0; i < opts.Frames; i++ {
		flags := mp4.NonSyncSampleFlags
		if i == 0 {
			flags = mp4.SyncSampleFlags
		}
		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags: flags,
				Size:  uint32(len(payload)),
				Dur:   opts.FrameDur,
			},
			DecodeTime: uint64(i) * uint64(opts.FrameDur),
			Data:       payload,
		})
	}

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode ftyp: %w", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode moov: %w", err)
	}
	if opts.Frames > 0 {
		if err := frag.Encode(&buf); err != nil {
			return nil, fmt.Errorf("encode fragment: %w", err)
		}
	}
	return buf.Bytes(), nil
}
