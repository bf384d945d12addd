package get_available_slots

import (
	"cmp"
	"slices"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/timenorm"
)

// toSlot переводит слот движка в модель ответа с локальным временем
func toSlot(n *timenorm.Normalizer, s domain.Slot) Slot {
	return Slot{
		EmployeeID: s.EmployeeID,
		Date:       s.Date,
		StartTime:  n.LocalTimeOf(s.Start),
		EndTime:    n.LocalTimeOf(s.End),
		Start:      s.Start,
		End:        s.End,
	}
}

// sortSlots упорядочивает слоты по (дата, начало, сотрудник)
func sortSlots(result []Slot) {
	slices.SortFunc(result, func(a, b Slot) int {
		return cmp.Or(
			a.Date.Compare(b.Date),
			a.Start.Compare(b.Start),
			cmp.Compare(a.EmployeeID, b.EmployeeID),
		)
	})
}
