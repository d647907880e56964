package services

import (
	"fmt"
	"strings"

	"github.com/BekmurodFoziloff/e-commerce/models"
)

type orderEmailLine struct {
	Name     string
	Quantity int
}

func orderCreatedEmail(customer *models.User, order *models.Order, lines []orderEmailLine) (subject, body string) {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, fmt.Sprintf("%d x %s", line.Quantity, line.Name))
	}

	subject = "New order created"
	body = fmt.Sprintf(`A new order has been created with the following details:<br><br>
    Customer Name: %s<br>
    Products: %s<br>
    Subtotal Price: %v<br>
    Status: %s<br><br>
    Thank you.`,
		customer.Name(), strings.Join(parts, ", "), order.SubTotalPrice, order.Status)
	return subject, body
}

func orderStatusEmail(order *models.Order) (subject, body string) {
	subject = "Order status updated"
	body = fmt.Sprintf(`The status of your order with ID %s has been updated to %s.<br><br>
    Thank you.`,
		order.ID.Hex(), order.Status)
	return subject, body
}
