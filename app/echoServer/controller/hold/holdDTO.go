package hold

type RequestPickupReq struct {
	ItemID int64 `json:"item_id" validate:"required,gt=0"`
}
