// Package chunk splits long message text into provider-sized segments.
//
// Two variants exist: Split is line-oriented and suits arbitrary text, while
// Paragraphs is used for reply assembly and prefers blank-line paragraph
// boundaries, falling back to sentence and then whitespace splits. Both are
// greedy: segments are packed as full as the limit allows.
package chunk

import "strings"

// Split divides text into ordered segments of at most max characters each,
// preserving line structure where possible. Lines longer than max are split
// on whitespace; a single token longer than max is emitted as its own
// oversized segment rather than truncated. Segments are trimmed and never
// empty; empty input yields nil.
func Split(text string, max int) []string {
	if max <= 0 {
		return nil
	}

	var segs []string
	current := ""

	for _, line := range strings.Split(text, "\n") {
		if len(line) > max {
			if current != "" {
				segs = appendSegment(segs, current)
			}
			// The trailing partial buffer stays open so following lines
			// can join it.
			segs, current = packWords(segs, line, max)
			continue
		}

		if len(current)+len(line)+1 <= max {
			current += line + "\n"
		} else {
			segs = appendSegment(segs, current)
			current = line + "\n"
		}
	}

	if current != "" {
		segs = appendSegment(segs, current)
	}
	return segs
}

// Paragraphs divides text into ordered segments of at most max characters,
// keeping blank-line-separated paragraphs together where possible. A
// paragraph that alone exceeds max is split at sentence boundaries; a
// sentence that still exceeds max is split on whitespace. Same segment
// guarantees as Split.
func Paragraphs(text string, max int) []string {
	if max <= 0 {
		return nil
	}

	var segs []string
	current := ""

	for _, para := range strings.Split(text, "\n\n") {
		if len(current)+len(para)+2 <= max {
			current += para + "\n\n"
			continue
		}

		if current != "" {
			segs = appendSegment(segs, current)
			current = ""
		}

		if len(para)+2 <= max {
			current = para + "\n\n"
			continue
		}

		// Paragraph alone exceeds the limit: fall back to sentence
		// boundaries, then to whitespace for pathological sentences.
		for _, sentence := range strings.SplitAfter(para, ". ") {
			if len(sentence) > max {
				if current != "" {
					segs = appendSegment(segs, current)
					current = ""
				}
				segs, current = packWords(segs, sentence, max)
				continue
			}
			if len(current)+len(sentence) <= max {
				current += sentence
			} else {
				segs = appendSegment(segs, current)
				current = sentence
			}
		}
		if current != "" {
			current += "\n\n"
		}
	}

	if current != "" {
		segs = appendSegment(segs, current)
	}
	return segs
}

// packWords splits an over-long run on whitespace and packs tokens greedily.
// The trailing partial buffer is returned open rather than flushed. A single
// token longer than max becomes its own oversized segment.
func packWords(segs []string, run string, max int) ([]string, string) {
	buf := ""
	for _, word := range strings.Fields(run) {
		if len(buf)+len(word)+1 <= max {
			buf += word + " "
			continue
		}
		if buf != "" {
			segs = appendSegment(segs, buf)
		}
		buf = word + " "
	}
	return segs, buf
}

// appendSegment trims and appends a completed segment, dropping blanks.
func appendSegment(segs []string, s string) []string {
	if t := strings.TrimSpace(s); t != "" {
		return append(segs, t)
	}
	return segs
}
