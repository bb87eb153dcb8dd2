package tableerrors_test

import (
	"errors"
	"fmt"
	"io"

	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := tableerrors.New(tableerrors.ErrorTypeFormat, "row has 2 fields, header has 3").
		WithDetail("line", 4).
		WithDetail("path", "quakes.csv")

	fmt.Println(err.Error())

	// Output:
	// format: row has 2 fields, header has 3
}

// ExampleWrap shows how to wrap an I/O failure.
func ExampleWrap() {
	err := tableerrors.Wrap(io.ErrUnexpectedEOF, tableerrors.ErrorTypeFile, "failed to read input").
		WithDetail("path", "data.csv")

	fmt.Println(tableerrors.IsFile(err))
	fmt.Println(errors.Is(err, io.ErrUnexpectedEOF))
	fmt.Println(err)

	// Output:
	// true
	// true
	// file: failed to read input: unexpected EOF
}

// ExampleColumnNotFound shows matching a category with errors.Is.
func ExampleColumnNotFound() {
	err := fmt.Errorf("sorting: %w", tableerrors.ColumnNotFound("magnitude"))

	fmt.Println(errors.Is(err, tableerrors.ErrColumnNotFound))
	fmt.Println(errors.Is(err, tableerrors.ErrFormat))
	fmt.Println(tableerrors.TypeOf(err))

	// Output:
	// true
	// false
	// column_not_found
}
