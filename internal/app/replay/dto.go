package replay

import "spirebridge/internal/app/ports"

type Request struct {
	Limit int
}

type Response struct {
	States []ports.StateRecord `json:"states"`
	Count  int                 `json:"count"`
}
