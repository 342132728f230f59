package domain

import (
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
)

// Object store layout. Segments land under StagingPrefix as
// {key}-{feedID}.mp3, glued clips under GluedPrefix as
// {timestamp}-glued.mp3, and job output under TranscriptPrefix as
// {fileID}-transcription.json.
const (
	StagingPrefix     = "audio-files/"
	GluedPrefix       = "glued-audio/"
	ArchivePrefix     = "glued-audio-archive/"
	TranscriptPrefix  = "transcriptions/"
	FullTextPrefix    = "full-text/"
	SummaryTextPrefix = "summaries/"
	HTMLPrefix        = "html/"

	gluedSuffix = "-glued.mp3"
)

// ParseOrderingKey extracts the numeric ordering key from an object key
// or filename of the form {key}-{rest}.mp3. The second return is false
// when no leading numeric token exists.
func ParseOrderingKey(name string) (int64, bool) {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	token, _, _ := strings.Cut(base, "-")
	key, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, false
	}
	return key, true
}

func StagedSegmentKey(orderingKey int64, feedID string) string {
	return fmt.Sprintf("%s%d-%s.mp3", StagingPrefix, orderingKey, feedID)
}

func GluedClipKey(timestamp int64) string {
	return fmt.Sprintf("%s%d%s", GluedPrefix, timestamp, gluedSuffix)
}

// ClipFileID returns the file id of a glued clip object, or false when
// the name does not follow the batched-clip convention.
func ClipFileID(key string) (int64, bool) {
	base := path.Base(key)
	if !strings.HasSuffix(base, gluedSuffix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSuffix(base, gluedSuffix), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func ArchivedClipKey(clipKey string) string {
	return ArchivePrefix + path.Base(clipKey)
}

// TranscriptionJobName derives the external job identifier for a clip.
// Deterministic on purpose: re-running the driver after a crash finds
// the same job instead of submitting a duplicate.
func TranscriptionJobName(fileID int64) string {
	return fmt.Sprintf("%d-transcription-job", fileID)
}

func TranscriptOutputKey(fileID int64) string {
	return fmt.Sprintf("%s%d-transcription.json", TranscriptPrefix, fileID)
}

// SortByOrderingKey orders object keys ascending by their embedded
// ordering key. Keys that do not parse sort after every parseable key,
// ties broken by name so the order stays stable.
func SortByOrderingKey(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		ki, oki := ParseOrderingKey(keys[i])
		kj, okj := ParseOrderingKey(keys[j])
		if oki != okj {
			return oki
		}
		if !oki {
			return keys[i] < keys[j]
		}
		if ki != kj {
			return ki < kj
		}
		return keys[i] < keys[j]
	})
}
