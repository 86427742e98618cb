package library_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookhaven/libraryapi/library"
)

func Test_NewPageRequest_ClampsInvalidInput(t *testing.T) {
	// act
	page := library.NewPageRequest(-3, 0)

	// assert
	assert.Equal(t, 0, page.Number, "negative page numbers should clamp to zero")
	assert.Equal(t, library.DefaultPageSize, page.Size, "non-positive sizes should fall back to the default")
}

func Test_NewPageRequest_CapsOversizedRequests(t *testing.T) {
	// act
	page := library.NewPageRequest(2, 10_000)

	// assert
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, library.MaxPageSize, page.Size)
}

func Test_PageRequest_Offset(t *testing.T) {
	// arrange
	page := library.NewPageRequest(3, 25)

	// assert
	assert.Equal(t, 75, page.Offset())
}

func Test_Page_TotalPages_RoundsUp(t *testing.T) {
	// arrange
	page := library.Page[int]{Size: 10, TotalElements: 41}

	// assert
	assert.Equal(t, 5, page.TotalPages())
}

func Test_Page_TotalPages_ExactDivision(t *testing.T) {
	// arrange
	page := library.Page[int]{Size: 10, TotalElements: 40}

	// assert
	assert.Equal(t, 4, page.TotalPages())
}

func Test_EmptyPage_EchoesRequest(t *testing.T) {
	// act
	page := library.EmptyPage[string](library.NewPageRequest(4, 15))

	// assert
	assert.Empty(t, page.Content)
	assert.Equal(t, 4, page.Number)
	assert.Equal(t, 15, page.Size)
	assert.Equal(t, int64(0), page.TotalElements)
}
