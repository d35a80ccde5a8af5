package entity

// ZeroAddress is the hex form of the empty account, used as the "unset"
// placeholder for creators and royalty recipients.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

type Entity interface {
	Slug() string
}
