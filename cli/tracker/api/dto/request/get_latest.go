package request

type GetLatest struct {
	Registration string `form:"registration" binding:"omitempty,max=64"`
}
