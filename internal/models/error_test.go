package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConflictsError(t *testing.T) {
	e := NewConflictsError("03c47bd2-170c-4b19-bdc0-d7e18d190dcf")
	b, err := json.Marshal(e)
	require.NoError(t, err)
	require.Equal(t, `{"data":null,"error":{"message":"resource already exists","id":"03c47bd2-170c-4b19-bdc0-d7e18d190dcf"}}`, string(b))
}

func TestListResponseNeverNullData(t *testing.T) {
	b, err := json.Marshal(NewListResponse[Seat](nil, Meta{Page: 1, PageSize: 25}))
	require.NoError(t, err)
	require.Equal(t, `{"data":[],"meta":{"total":0,"page":1,"page_size":25}}`, string(b))
}
