package format

import (
	"reflect"
	"testing"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name  string
		items []int
		size  int
		want  [][]int
	}{
		{"empty", nil, 3, nil},
		{"exact multiple", []int{1, 2, 3, 4}, 2, [][]int{{1, 2}, {3, 4}}},
		{"short tail", []int{1, 2, 3, 4, 5}, 2, [][]int{{1, 2}, {3, 4}, {5}}},
		{"size larger than input", []int{1, 2}, 10, [][]int{{1, 2}}},
		{"size one", []int{1, 2, 3}, 1, [][]int{{1}, {2}, {3}}},
		{"non-positive size", []int{1, 2, 3}, 0, [][]int{{1, 2, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(tt.items, tt.size)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Partition(%v, %d) = %v, want %v", tt.items, tt.size, got, tt.want)
			}
		})
	}
}

// Every item must land in exactly one batch, in order.
func TestPartitionCoversInput(t *testing.T) {
	items := make([]int, 103)
	for i := range items {
		items[i] = i
	}
	var flat []int
	for _, b := range Partition(items, 30) {
		flat = append(flat, b...)
	}
	if !reflect.DeepEqual(flat, items) {
		t.Error("concatenated batches differ from input")
	}
}

func TestUniqueNames(t *testing.T) {
	got := UniqueNames([]string{"a", "b", "a", "", "c", "b"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UniqueNames = %v, want %v", got, want)
	}
}
