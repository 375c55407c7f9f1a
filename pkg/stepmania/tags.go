package stepmania

import "strings"

// Tag is a record kind the decoder understands
type Tag int

const (
	TagUnknown Tag = iota
	TagVersion
	TagTitle
	TagSubtitle
	TagArtist
	TagCredit
	TagMusic
	TagOffset
	TagSampleStart
	TagSampleLength
	TagBPMs
	TagNotes
)

var tagsByName = map[string]Tag{
	"VERSION":      TagVersion,
	"TITLE":        TagTitle,
	"SUBTITLE":     TagSubtitle,
	"ARTIST":       TagArtist,
	"CREDIT":       TagCredit,
	"MUSIC":        TagMusic,
	"OFFSET":       TagOffset,
	"SAMPLESTART":  TagSampleStart,
	"SAMPLELENGTH": TagSampleLength,
	"BPMS":         TagBPMs,
	"NOTES":        TagNotes,
}

// LookupTag resolves a record tag name, ignoring case
func LookupTag(name string) Tag {
	if tag, ok := tagsByName[strings.ToUpper(name)]; ok {
		return tag
	}
	return TagUnknown
}
