// Package codecdetect probes a video file for its container and video codec.
package codecdetect

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
)

// ErrUnknownContainer is returned when the file is neither ISO-BMFF nor Matroska/WebM.
var ErrUnknownContainer = errors.New("codecdetect: unknown container")

// Container is a file container format.
type Container string

const (
	ContainerMP4     Container = "mp4"
	ContainerWebM    Container = "webm"
	ContainerUnknown Container = "unknown"
)

// Codec represents a video codec type.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecHEVC    Codec = "hevc"
	CodecAV1     Codec = "av1"
	CodecVP9     Codec = "vp9"
	CodecUnknown Codec = "unknown"
)

// Probe is the result of inspecting a video file.
type Probe struct {
	Container Container
	Codec     Codec
}

// NeedsTranscode reports whether the file must be converted to H.264 MP4 before the
// frame source can index it.
func (p Probe) NeedsTranscode() bool {
	return p.Container != ContainerMP4 || p.Codec != CodecH264
}

// String formats the probe as "container/codec".
func (p Probe) String() string {
	return fmt.Sprintf("%s/%s", p.Container, p.Codec)
}

var ebmlMagic = []byte{0x1A, 0x45, 0xDF, 0xA3}

// DetectContainer identifies the container from the first bytes of a file.
func DetectContainer(header []byte) Container {
	if len(header) >= 4 && bytes.Equal(header[:4], ebmlMagic) {
		return ContainerWebM
	}
	if len(header) >= 8 {
		switch string(header[4:8]) {
		case "ftyp", "moov", "styp", "free", "mdat":
			return ContainerMP4
		}
	}
	return ContainerUnknown
}

// ProbeFile inspects the video file at path.
func ProbeFile(path string) (Probe, error) {
	f, err := os.Open(path)
	if err != nil {
		return Probe{Container: ContainerUnknown, Codec: CodecUnknown}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// ProbeReader inspects a video from an io.ReadSeeker. WebM files are recognised by their
// EBML header only; their codec is reported as unknown.
func ProbeReader(reader io.ReadSeeker) (Probe, error) {
	p := Probe{Container: ContainerUnknown, Codec: CodecUnknown}

	header := make([]byte, 12)
	n, err := io.ReadFull(reader, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return p, fmt.Errorf("read header: %w", err)
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return p, fmt.Errorf("seek: %w", err)
	}

	p.Container = DetectContainer(header[:n])
	switch p.Container {
	case ContainerWebM:
		return p, nil
	case ContainerMP4:
		codec, err := DetectFromReader(reader)
		if err != nil {
			return p, err
		}
		p.Codec = codec
		return p, nil
	default:
		return p, ErrUnknownContainer
	}
}

// DetectFromReader detects the video codec of an MP4 file.
func DetectFromReader(reader io.ReadSeeker) (Codec, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return CodecUnknown, fmt.Errorf("decode mp4: %w", err)
	}

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return CodecUnknown, fmt.Errorf("seek: %w", err)
	}

	return detectFromMP4File(mp4File)
}

// DetectFromBytes detects the video codec from MP4 data bytes.
func DetectFromBytes(data []byte) (Codec, error) {
	return DetectFromReader(bytes.NewReader(data))
}

func detectFromMP4File(mp4File *mp4.File) (Codec, error) {
	var traks []*mp4.TrakBox
	if mp4File.IsFragmented() && mp4File.Init != nil && mp4File.Init.Moov != nil {
		traks = append(traks, mp4File.Init.Moov.Traks...)
	}
	if mp4File.Moov != nil {
		traks = append(traks, mp4File.Moov.Traks...)
	}

	found := false
	for _, trak := range traks {
		codec, video := detectCodecFromTrack(trak)
		if !video {
			continue
		}
		found = true
		if codec != CodecUnknown {
			return codec, nil
		}
	}
	if found {
		return CodecUnknown, nil
	}
	return CodecUnknown, fmt.Errorf("no video track found")
}

func detectCodecFromTrack(trak *mp4.TrakBox) (Codec, bool) {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
		return CodecUnknown, false
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return CodecUnknown, true
	}

	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		switch child.Type() {
		case "avc1", "avc3":
			return CodecH264, true
		case "hvc1", "hev1":
			return CodecHEVC, true
		case "av01":
			return CodecAV1, true
		case "vp09":
			return CodecVP9, true
		}
	}
	return CodecUnknown, true
}
