package tablescan

import "github.com/jmylchreest/posbridge/pkg/tagstream"

// DefaultContainerClass is the class value that marks the div wrapping
// the price table.
const DefaultContainerClass = "table-scrollable"

// Context is the position of the scan within the expected skeleton
// html > body > div.container > table > tr > td.
type Context int

const (
	Initial Context = iota
	InHTML
	InBody
	InContainer
	InTable
	InRow
	InCell
)

var contextNames = [...]string{
	Initial:     "Initial",
	InHTML:      "InHTML",
	InBody:      "InBody",
	InContainer: "InContainer",
	InTable:     "InTable",
	InRow:       "InRow",
	InCell:      "InCell",
}

func (c Context) String() string {
	if c < 0 || int(c) >= len(contextNames) {
		return "Unknown"
	}
	return contextNames[c]
}

// Event is the side effect a transition asks the accumulator to perform.
type Event int

const (
	EventNone Event = iota
	// EventText appends the tag's text to the open row.
	EventText
	// EventRowClosed emits the open row (if it has cells) and clears it.
	EventRowClosed
)

// Next computes the transition for tag in context c. Any combination not
// listed below leaves the context unchanged and reports EventNone.
//
// Div nesting is not tracked: the first closing div seen in InContainer
// returns to InBody, even if it closes a div nested inside the container.
func Next(c Context, tag tagstream.Tag, containerClass string) (Context, Event) {
	switch c {
	case Initial:
		if tag.Kind == tagstream.Opening && tag.Name == "html" {
			return InHTML, EventNone
		}

	case InHTML:
		switch {
		case tag.Kind == tagstream.Closing && tag.Name == "html":
			return Initial, EventNone
		case tag.Kind == tagstream.Opening && tag.Name == "body":
			return InBody, EventNone
		}

	case InBody:
		switch {
		case tag.Kind == tagstream.Closing && tag.Name == "body":
			return InHTML, EventNone
		case tag.Kind == tagstream.Opening && tag.Name == "div" && hasClass(tag, containerClass):
			return InContainer, EventNone
		}

	case InContainer:
		switch {
		case tag.Kind == tagstream.Closing && tag.Name == "div":
			return InBody, EventNone
		case tag.Kind == tagstream.Opening && tag.Name == "table":
			return InTable, EventNone
		}

	case InTable:
		if tag.Kind == tagstream.Opening && tag.Name == "tr" {
			return InRow, EventNone
		}

	case InRow:
		switch {
		case tag.Kind == tagstream.Closing && tag.Name == "tr":
			return InTable, EventRowClosed
		case tag.Kind == tagstream.Opening && tag.Name == "td":
			return InCell, EventNone
		}

	case InCell:
		switch tag.Kind {
		case tagstream.Closing:
			if tag.Name == "td" {
				return InRow, EventNone
			}
		case tagstream.Text:
			return InCell, EventText
		}
	}

	return c, EventNone
}

// hasClass reports whether any class attribute equals class exactly.
// The attribute value is compared whole, not split into class tokens.
func hasClass(tag tagstream.Tag, class string) bool {
	for _, a := range tag.Attributes {
		if a.Name == "class" && a.Value == class {
			return true
		}
	}
	return false
}
