package versions

import (
	"strconv"
	"strings"
)

const (
	segmentSeparatorsConstant     = ".-"
	preReleaseMarkerConstant      = "snapshot"
	zeroSegmentConstant           = "0"
	comparisonLessConstant        = -1
	comparisonEqualConstant       = 0
	comparisonGreaterConstant     = 1
)

// Compare orders two version strings using numeric-segment-aware comparison
// rather than plain string ordering. Segments are split on dots and dashes;
// numeric segments compare numerically, a numeric segment outranks a
// qualifier segment, qualifier segments compare lexically, and a missing
// segment outranks a qualifier but loses to a non-zero numeric extension.
func Compare(firstVersion string, secondVersion string) int {
	firstSegments := splitSegments(firstVersion)
	secondSegments := splitSegments(secondVersion)

	commonLength := len(firstSegments)
	if len(secondSegments) < commonLength {
		commonLength = len(secondSegments)
	}

	for segmentIndex := 0; segmentIndex < commonLength; segmentIndex++ {
		if comparison := compareSegments(firstSegments[segmentIndex], secondSegments[segmentIndex]); comparison != comparisonEqualConstant {
			return comparison
		}
	}

	if remainder := compareRemainder(firstSegments[commonLength:]); remainder != comparisonEqualConstant {
		return remainder
	}
	return -compareRemainder(secondSegments[commonLength:])
}

// IsPreRelease reports whether the version carries a pre-release marker and
// must be excluded from latest-stable selection.
func IsPreRelease(version string) bool {
	return strings.Contains(strings.ToLower(version), preReleaseMarkerConstant)
}

// LatestStable selects the maximum non-pre-release version from the list.
func LatestStable(availableVersions []string) (string, bool) {
	selected := ""
	found := false
	for _, candidate := range availableVersions {
		trimmedCandidate := strings.TrimSpace(candidate)
		if len(trimmedCandidate) == 0 || IsPreRelease(trimmedCandidate) {
			continue
		}
		if !found || Compare(trimmedCandidate, selected) > comparisonEqualConstant {
			selected = trimmedCandidate
			found = true
		}
	}
	return selected, found
}

func splitSegments(version string) []string {
	return strings.FieldsFunc(strings.TrimSpace(version), func(candidate rune) bool {
		return strings.ContainsRune(segmentSeparatorsConstant, candidate)
	})
}

func compareSegments(firstSegment string, secondSegment string) int {
	firstNumber, firstNumeric := parseNumericSegment(firstSegment)
	secondNumber, secondNumeric := parseNumericSegment(secondSegment)

	switch {
	case firstNumeric && secondNumeric:
		switch {
		case firstNumber < secondNumber:
			return comparisonLessConstant
		case firstNumber > secondNumber:
			return comparisonGreaterConstant
		default:
			return comparisonEqualConstant
		}
	case firstNumeric:
		return comparisonGreaterConstant
	case secondNumeric:
		return comparisonLessConstant
	default:
		return strings.Compare(strings.ToLower(firstSegment), strings.ToLower(secondSegment))
	}
}

// compareRemainder decides how trailing segments of the longer version rank
// against the exhausted shorter one: zero segments are neutral, a numeric
// extension ranks higher, a qualifier extension ranks lower.
func compareRemainder(remainingSegments []string) int {
	for _, segment := range remainingSegments {
		if segment == zeroSegmentConstant {
			continue
		}
		if _, numeric := parseNumericSegment(segment); numeric {
			return comparisonGreaterConstant
		}
		return comparisonLessConstant
	}
	return comparisonEqualConstant
}

func parseNumericSegment(segment string) (int64, bool) {
	parsedValue, parseError := strconv.ParseInt(segment, 10, 64)
	return parsedValue, parseError == nil
}
