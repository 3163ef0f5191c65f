package domain

import "time"

const (
	dateLayout    = "2006-01-02"
	displayLayout = "01/02/2006"
)

// Date is a calendar date carried in YYYY-MM-DD form, the format the remote
// store uses on the wire. Display formatting happens only at presentation
// time and never changes the stored value.
type Date string

// Today returns the current date.
func Today() Date {
	return Date(time.Now().Format(dateLayout))
}

// IsZero returns true if the date is unset.
func (d Date) IsZero() bool {
	return d == ""
}

// Valid reports whether the date parses as YYYY-MM-DD.
func (d Date) Valid() bool {
	_, err := time.Parse(dateLayout, string(d))
	return err == nil
}

// Display formats the date as MM/DD/YYYY for documents and listings.
// An unparseable value is returned unchanged so bad data stays visible
// instead of rendering blank.
func (d Date) Display() string {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return string(d)
	}
	return t.Format(displayLayout)
}

// Time returns the date as a time.Time at midnight UTC, or the zero time if
// the date does not parse.
func (d Date) Time() time.Time {
	t, _ := time.Parse(dateLayout, string(d))
	return t
}
