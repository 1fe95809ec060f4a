package forecast

import "errors"

// ErrInsufficientData is returned when the order history in scope is too
// small for training (< 10 records) or prediction (< 3 records per product).
var ErrInsufficientData = errors.New("学習に十分なデータがありません（最低10件必要）")

// ErrInsufficientProductData is the per-product prediction variant.
var ErrInsufficientProductData = errors.New("予測に十分なデータがありません")

// ErrModelNotTrained is returned when a prediction is requested and no
// persisted artifact exists for the dealer.
var ErrModelNotTrained = errors.New("モデルが訓練されていません")
