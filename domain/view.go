package domain

// VisibleTaskCount is how many leading tasks are rendered before "view more" is offered.
const VisibleTaskCount = 3

// ViewItem is a rendered task tagged with its position in the full list.
type ViewItem struct {
	Position int  `json:"position"`
	Task     Task `json:"task"`
}

// TaskView is the render list handed to the display layer.
type TaskView struct {
	Items    []ViewItem `json:"items"`
	ShowMore bool       `json:"show_more"`
	Total    int        `json:"total"`
}

// BuildView computes the render list for tasks. Positions always refer to the full list.
func BuildView(tasks []Task, showingFullList bool) TaskView {
	n := len(tasks)
	if !showingFullList && n > VisibleTaskCount {
		n = VisibleTaskCount
	}

	items := make([]ViewItem, n)
	for i := 0; i < n; i++ {
		items[i] = ViewItem{Position: i, Task: tasks[i]}
	}

	return TaskView{
		Items:    items,
		ShowMore: len(tasks) > VisibleTaskCount && !showingFullList,
		Total:    len(tasks),
	}
}
