package listview

import (
	"errors"
	"testing"

	"github.com/dalemusser/recycleadmin/internal/app/system/apperr"
	"github.com/dalemusser/recycleadmin/internal/app/system/paging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cert struct{ ID string }

var statusTabs = []string{"pending", "approved", "disapproved"}

func TestRender_Loading(t *testing.T) {
	res := paging.NewResult([]cert{{"a"}}, 1, 10, 1)
	v := Render(RenderInput[cert]{Result: &res, Loading: true, Err: errors.New("x")})

	assert.Equal(t, ModeLoading, v.Mode)
	assert.Nil(t, v.Rows)
	assert.Nil(t, v.Pager)
}

func TestRender_Error(t *testing.T) {
	v := Render(RenderInput[cert]{Err: apperr.Transport("Service unavailable", nil)})
	assert.Equal(t, ModeError, v.Mode)
	assert.Equal(t, "Service unavailable", v.Message)

	v = Render(RenderInput[cert]{Err: errors.New("dial tcp: refused"), ErrorFallback: "Failed to load certificates."})
	assert.Equal(t, "Failed to load certificates.", v.Message)

	v = Render(RenderInput[cert]{Err: errors.New("dial tcp: refused")})
	assert.Equal(t, apperr.GenericMessage, v.Message)
}

func TestRender_EmptyScopedToTab(t *testing.T) {
	res := paging.NewResult([]cert{}, 1, 10, 0)

	v := Render(RenderInput[cert]{Result: &res, Noun: "certificates", Tabs: statusTabs, ActiveTab: "approved"})
	assert.Equal(t, ModeEmpty, v.Mode)
	assert.Equal(t, "No approved certificates", v.Message)
	assert.Nil(t, v.Pager)

	v = Render(RenderInput[cert]{Result: &res, Noun: "users"})
	assert.Equal(t, "No users found", v.Message)
}

func TestRender_PendingCertificatesScenario(t *testing.T) {
	res := paging.Result[cert]{Items: []cert{{"A"}, {"B"}}, CurrentPage: 1, TotalPages: 3, TotalCount: 25}

	v := Render(RenderInput[cert]{
		Result:    &res,
		PageSize:  10,
		Noun:      "certificates",
		Tabs:      statusTabs,
		ActiveTab: "pending",
		TabCounts: map[string]int64{"pending": 24, "approved": 7},
	})

	require.Equal(t, ModeTable, v.Mode)
	assert.Equal(t, []cert{{"A"}, {"B"}}, v.Rows)
	require.NotNil(t, v.Pager)
	assert.True(t, v.Pager.PrevDisabled)
	assert.False(t, v.Pager.NextDisabled)
	assert.Equal(t, int64(25), v.Pager.TotalCount)

	require.Len(t, v.Tabs, 3)
	assert.True(t, v.Tabs[0].Active)
	assert.Equal(t, int64(25), v.Tabs[0].Count, "active badge comes from the fetched total")
	assert.Equal(t, int64(7), v.Tabs[1].Count)
	assert.False(t, v.Tabs[2].HasCount)
	assert.Equal(t, "Pending", v.Tabs[0].Label)
}

func TestNewPager_Bounds(t *testing.T) {
	for n := 1; n <= 4; n++ {
		for cur := 1; cur <= n; cur++ {
			p := NewPager(paging.Result[cert]{Items: []cert{{"x"}}, CurrentPage: cur, TotalPages: n, TotalCount: int64(n * 10)}, 10)
			assert.Equal(t, cur == n, p.NextDisabled, "next disabled iff last page (cur=%d n=%d)", cur, n)
			assert.Equal(t, cur == 1, p.PrevDisabled, "prev disabled iff first page (cur=%d n=%d)", cur, n)
			assert.GreaterOrEqual(t, p.PrevPage, 1)
			assert.LessOrEqual(t, p.NextPage, n)
		}
	}
}

func TestNewPager_Range(t *testing.T) {
	p := NewPager(paging.Result[cert]{Items: make([]cert, 5), CurrentPage: 3, TotalPages: 3, TotalCount: 25}, 10)
	assert.Equal(t, paging.Range{Start: 21, End: 25}, p.Range)
}
