package basketevents

const (
	TopicName          = "basket"
	basketReplacedName = TopicName + ".replaced"
	basketDeletedName  = TopicName + ".deleted"
)

type BasketReplaced struct {
	OwnerUID     string
	ProductCount int
}

func (e BasketReplaced) GetEventTypeName() string {
	return basketReplacedName
}

func (e BasketReplaced) GetAggregateName() string {
	return e.OwnerUID
}

type BasketDeleted struct {
	OwnerUID string
}

func (e BasketDeleted) GetEventTypeName() string {
	return basketDeletedName
}

func (e BasketDeleted) GetAggregateName() string {
	return e.OwnerUID
}
