// Package mp4source implements ports.FrameSource over H.264 MP4 files: mp4ff supplies
// the per-frame timestamps and ffmpeg supplies the pixels.
package mp4source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Eyevinn/mp4ff/mp4"
)

// ErrNoVideoTrack is returned when the file has no video track.
var ErrNoVideoTrack = errors.New("mp4source: no video track found")

// Index is the frame table of a video track in presentation order.
type Index struct {
	Width  int
	Height int
	// Times holds the presentation time of each frame in seconds, starting at 0.
	Times []float64
	// Duration is the presentation end of the last frame in seconds.
	Duration float64
}

// FrameCount returns the number of frames.
func (ix *Index) FrameCount() int {
	return len(ix.Times)
}

// TimeAt returns the presentation time at a frame index. Past the last frame it returns
// the stream duration.
func (ix *Index) TimeAt(index int) float64 {
	if index < 0 {
		return 0
	}
	if index >= len(ix.Times) {
		return ix.Duration
	}
	return ix.Times[index]
}

// BuildIndexFromFile indexes the MP4 file at path.
func BuildIndexFromFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return BuildIndex(f)
}

// BuildIndex indexes an MP4 from an io.ReadSeeker.
func BuildIndex(reader io.ReadSeeker) (*Index, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}

	var samples []sampleTime
	var timescale uint32
	var trak *mp4.TrakBox
	if mp4File.IsFragmented() {
		trak, samples, timescale, err = fragmentedSamples(mp4File)
	} else {
		trak, samples, timescale, err = progressiveSamples(mp4File)
	}
	if err != nil {
		return nil, err
	}

	ix := &Index{}
	ix.Width, ix.Height = dimensions(trak)
	ix.fill(samples, timescale)
	return ix, nil
}

type sampleTime struct {
	pts int64
	dur uint32
}

// fill converts sample times to seconds in presentation order, shifted so the first
// frame is at 0.
func (ix *Index) fill(samples []sampleTime, timescale uint32) {
	if len(samples) == 0 || timescale == 0 {
		return
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].pts < samples[j].pts })

	origin := samples[0].pts
	scale := float64(timescale)
	ix.Times = make([]float64, len(samples))
	for i, s := range samples {
		ix.Times[i] = float64(s.pts-origin) / scale
	}
	last := samples[len(samples)-1]
	ix.Duration = float64(last.pts-origin+int64(last.dur)) / scale
}

func videoTrak(traks []*mp4.TrakBox) *mp4.TrakBox {
	for _, trak := range traks {
		if trak.Mdia != nil && trak.Mdia.Hdlr != nil && trak.Mdia.Hdlr.HandlerType == "vide" {
			return trak
		}
	}
	return nil
}

func trakTimescale(trak *mp4.TrakBox) uint32 {
	if trak.Mdia != nil && trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Timescale != 0 {
		return trak.Mdia.Mdhd.Timescale
	}
	return 1000
}

func dimensions(trak *mp4.TrakBox) (int, int) {
	if trak.Mdia != nil && trak.Mdia.Minf != nil && trak.Mdia.Minf.Stbl != nil && trak.Mdia.Minf.Stbl.Stsd != nil {
		for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
			if vse, ok := child.(*mp4.VisualSampleEntryBox); ok && vse.Width > 0 && vse.Height > 0 {
				return int(vse.Width), int(vse.Height)
			}
		}
	}
	if trak.Tkhd != nil {
		return int(trak.Tkhd.Width >> 16), int(trak.Tkhd.Height >> 16)
	}
	return 0, 0
}

func fragmentedSamples(mp4File *mp4.File) (*mp4.TrakBox, []sampleTime, uint32, error) {
	if mp4File.Init == nil || mp4File.Init.Moov == nil {
		return nil, nil, 0, ErrNoVideoTrack
	}
	moov := mp4File.Init.Moov
	trak := videoTrak(moov.Traks)
	if trak == nil {
		return nil, nil, 0, ErrNoVideoTrack
	}
	trackID := trak.Tkhd.TrackID

	var trex *mp4.TrexBox
	if moov.Mvex != nil {
		for _, t := range moov.Mvex.Trexs {
			if t.TrackID == trackID {
				trex = t
				break
			}
		}
	}

	var samples []sampleTime
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			full, err := frag.GetFullSamples(trex)
			if err != nil {
				return nil, nil, 0, fmt.Errorf("get samples: %w", err)
			}
			for _, s := range full {
				samples = append(samples, sampleTime{
					pts: int64(s.DecodeTime) + int64(s.CompositionTimeOffset),
					dur: s.Dur,
				})
			}
		}
	}
	return trak, samples, trakTimescale(trak), nil
}

func progressiveSamples(mp4File *mp4.File) (*mp4.TrakBox, []sampleTime, uint32, error) {
	if mp4File.Moov == nil {
		return nil, nil, 0, fmt.Errorf("no moov box found")
	}
	trak := videoTrak(mp4File.Moov.Traks)
	if trak == nil {
		return nil, nil, 0, ErrNoVideoTrack
	}
	if trak.Mdia == nil || trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
		return nil, nil, 0, fmt.Errorf("no sample table found")
	}
	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz == nil {
		return nil, nil, 0, fmt.Errorf("no stsz box found")
	}

	count := stbl.Stsz.SampleNumber
	samples := make([]sampleTime, 0, count)
	for nr := uint32(1); nr <= count; nr++ {
		var decodeTime uint64
		var dur uint32
		if stbl.Stts != nil {
			decodeTime, dur = stbl.Stts.GetDecodeTime(nr)
		}
		pts := int64(decodeTime)
		if stbl.Ctts != nil {
			pts += int64(stbl.Ctts.GetCompositionTimeOffset(nr))
		}
		samples = append(samples, sampleTime{pts: pts, dur: dur})
	}
	return trak, samples, trakTimescale(trak), nil
}
