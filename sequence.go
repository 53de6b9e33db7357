package multitrack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type (
	// Sequence is a read-only set of note tracks, typically parsed from a
	// bundled Standard MIDI File and used as a template for new tracks.
	Sequence struct {
		Tracks []SequenceTrack
	}

	SequenceTrack struct {
		Name  string
		Notes []NoteEvent
	}
)

// ReadSequence parses a Standard MIDI File. Every SMF track becomes one
// SequenceTrack, including the conductor track of format 1 files, so track
// indices match the indices in the file. Note positions are converted from
// ticks to beats using the file resolution.
func ReadSequence(r io.Reader) (Sequence, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return Sequence{}, fmt.Errorf("could not read midi file: %w", err)
	}
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || ticks.Resolution() == 0 {
		return Sequence{}, errors.New("only metric time format is supported")
	}
	res := float64(ticks.Resolution())
	seq := Sequence{Tracks: make([]SequenceTrack, len(s.Tracks))}
	for i, track := range s.Tracks {
		seq.Tracks[i] = readTrack(track, res)
	}
	return seq, nil
}

// LoadSequence reads a Standard MIDI File from fsys.
func LoadSequence(fsys fs.FS, path string) (Sequence, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Sequence{}, fmt.Errorf("could not read sequence %v: %w", path, err)
	}
	seq, err := ReadSequence(bytes.NewReader(data))
	if err != nil {
		return Sequence{}, fmt.Errorf("%v: %w", path, err)
	}
	return seq, nil
}

func readTrack(track smf.Track, res float64) SequenceTrack {
	type key struct{ channel, note uint8 }
	var ret SequenceTrack
	var abs uint64
	open := map[key]NoteEvent{}
	closeNote := func(k key, at Beats) {
		n, ok := open[k]
		if !ok {
			return
		}
		delete(open, k)
		n.Duration = at - n.Position
		if n.Duration > 0 {
			ret.Notes = append(ret.Notes, n)
		}
	}
	for _, ev := range track {
		abs += uint64(ev.Delta)
		pos := Beats(float64(abs) / res)
		var name string
		if ev.Message.GetMetaTrackName(&name) {
			ret.Name = name
			continue
		}
		var channel, note, velocity uint8
		msg := midi.Message(ev.Message)
		switch {
		case msg.GetNoteOn(&channel, &note, &velocity) && velocity > 0:
			k := key{channel, note}
			closeNote(k, pos) // retrigger ends the sounding note
			open[k] = NoteEvent{Note: note, Velocity: velocity, Position: pos}
		case msg.GetNoteOn(&channel, &note, &velocity), msg.GetNoteOff(&channel, &note, &velocity):
			closeNote(key{channel, note}, pos)
		}
	}
	end := Beats(float64(abs) / res)
	for k := range open {
		closeNote(k, end)
	}
	sort.SliceStable(ret.Notes, func(i, j int) bool {
		if ret.Notes[i].Position == ret.Notes[j].Position {
			return ret.Notes[i].Note < ret.Notes[j].Note
		}
		return ret.Notes[i].Position < ret.Notes[j].Position
	})
	return ret
}

// Track returns the track at index, or false if the sequence has no such
// track.
func (s Sequence) Track(index int) (SequenceTrack, bool) {
	if index < 0 || index >= len(s.Tracks) {
		return SequenceTrack{}, false
	}
	return s.Tracks[index], true
}

// End returns the position where the last note of the track ends.
func (t SequenceTrack) End() Beats {
	var ret Beats
	for _, n := range t.Notes {
		ret = max(ret, n.End())
	}
	return ret
}

// Range returns copies of the notes starting within [start, start+length),
// shifted so that start becomes zero. Notes are truncated to end at
// start+length.
func (t SequenceTrack) Range(start, length Beats) []NoteEvent {
	var ret []NoteEvent
	for _, n := range t.Notes {
		if !n.StartsWithin(start, length) {
			continue
		}
		n.Position -= start
		if n.End() > length {
			n.Duration = length - n.Position
		}
		ret = append(ret, n)
	}
	return ret
}
