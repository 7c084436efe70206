package handlers

import "fmt"

const (
	msgSelectQuantity  = "الرجاء تحديد الكمية أولاً."
	msgItemUnavailable = "هذا المنتج غير متاح حالياً"
	msgLoginToSeeSaved = "يرجى تسجيل الدخول لعرض العناوين المحفوظة"
)

func addedToCart(qty int, name string) string {
	return fmt.Sprintf("تمت إضافة %dx %s إلى سلة المشتريات", qty, name)
}
