package sync

import (
	"fmt"

	"github.com/dmrtv/BSC-SchedulingService/internal/infra/cache"
)

// Ключи кэша выборок. Раздел кэша мастера включает хэш его окон членства:
// когда состав окон меняется, меняются сами ключи, и старый раздел
// перестаёт использоваться вместо того, чтобы отдавать неверную атрибуцию.

// MembershipKey ключ набора окон членства мастера
func MembershipKey(staffID int64) cache.Key {
	return cache.Key(fmt.Sprintf("membership:%d", staffID))
}

// StaffDayKey ключ дневной выборки расписания мастера
func StaffDayKey(staffID int64, windowsHash, date string) cache.Key {
	return cache.Key(fmt.Sprintf("staff:%d:%s:day:%s", staffID, windowsHash, date))
}

// StaffListKey ключ списочной выборки мастера
func StaffListKey(staffID int64, windowsHash string) cache.Key {
	return cache.Key(fmt.Sprintf("staff:%d:%s:list", staffID, windowsHash))
}

// CustomerListKey ключ списочной выборки клиента
func CustomerListKey(customerID int64) cache.Key {
	return cache.Key(fmt.Sprintf("customer:%d:list", customerID))
}

// CustomerDayKey ключ дневной выборки клиента
func CustomerDayKey(customerID int64, date string) cache.Key {
	return cache.Key(fmt.Sprintf("customer:%d:day:%s", customerID, date))
}

// GroupKey ключ выборки повторяющейся группы
func GroupKey(groupID string) cache.Key {
	return cache.Key(fmt.Sprintf("group:%s", groupID))
}

// staffViewKeys возвращает ключи выборок мастера под текущим набором окон и
// объявляет их зависимыми от ключа членства: инвалидация членства каскадно
// инвалидирует выборки
func staffViewKeys(c Cache, staffID int64, windowsHash, date string) []cache.Key {
	membershipKey := MembershipKey(staffID)
	list := StaffListKey(staffID, windowsHash)
	day := StaffDayKey(staffID, windowsHash, date)
	c.Link(membershipKey, list)
	c.Link(membershipKey, day)
	return []cache.Key{list, day}
}
