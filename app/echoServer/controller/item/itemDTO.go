package item

type CreateReq struct {
	Category string `json:"category" validate:"required,oneof=BOOK MOVIE DEVICE"`
	Copies   int64  `json:"copies" validate:"gte=0"`

	Title        string `json:"title" validate:"required"`
	Author       string `json:"author"`
	ISBN         string `json:"isbn"`
	Director     string `json:"director"`
	Year         int    `json:"year"`
	Manufacturer string `json:"manufacturer"`
	Serial       string `json:"serial"`
}

type AddCopiesReq struct {
	Copies int64 `json:"copies" validate:"required,gt=0"`
}
