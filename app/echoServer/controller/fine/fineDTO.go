package fine

type WaiveReq struct {
	Reason string `json:"reason" validate:"required"`
}

type IssueReq struct {
	BorrowID int64   `json:"borrow_id" validate:"required,gt=0"`
	FeeType  string  `json:"fee_type" validate:"required,oneof=LATE LOST DAMAGED"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Notes    string  `json:"notes"`
}
