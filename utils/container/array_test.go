package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urban-sims/microtraffic/utils/container"
)

type testItem struct {
	container.IncrementalItemBase
	id int
}

func newItems(ids ...int) []*testItem {
	items := make([]*testItem, len(ids))
	for i, id := range ids {
		items[i] = &testItem{id: id}
	}
	return items
}

func ids(a *container.IncrementalArray[*testItem]) []int {
	out := make([]int, 0, a.Len())
	for _, x := range a.Data() {
		out = append(out, x.id)
	}
	return out
}

func TestIncrementalArrayInit(t *testing.T) {
	a := container.NewIncrementalArray[*testItem]()
	assert.Equal(t, 0, a.Len())
	assert.Empty(t, a.Data())
}

func TestIncrementalArrayAddRemove(t *testing.T) {
	a := container.NewIncrementalArray[*testItem]()
	items := newItems(1, 2, 3, 4)
	for _, x := range items {
		a.Add(x)
	}
	// 添加在Prepare前不生效
	assert.Equal(t, 0, a.Len())
	a.Prepare()
	assert.Equal(t, []int{1, 2, 3, 4}, ids(a))
	for i, x := range a.Data() {
		assert.Equal(t, i, x.Index())
	}

	// 删2加5
	a.Remove(items[1])
	a.Add(newItems(5)[0])
	a.Prepare()
	assert.ElementsMatch(t, []int{1, 3, 4, 5}, ids(a))
	for i, x := range a.Data() {
		assert.Equal(t, i, x.Index())
	}
}

func TestIncrementalArrayRemoveTail(t *testing.T) {
	a := container.NewIncrementalArray[*testItem]()
	items := newItems(1, 2, 3, 4, 5)
	for _, x := range items {
		a.Add(x)
	}
	a.Prepare()

	// 同时删除中间与末尾元素
	a.Remove(items[1])
	a.Remove(items[4])
	a.Remove(items[2])
	a.Prepare()
	assert.ElementsMatch(t, []int{1, 4}, ids(a))
	for i, x := range a.Data() {
		assert.Equal(t, i, x.Index())
	}

	// 删空后再添加
	a.Remove(items[0])
	a.Remove(items[3])
	a.Prepare()
	assert.Equal(t, 0, a.Len())
	a.Add(items[2])
	a.Prepare()
	assert.Equal(t, []int{3}, ids(a))
	assert.Equal(t, 0, items[2].Index())
}
