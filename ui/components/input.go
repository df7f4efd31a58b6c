package components

import (
	"github.com/Rorical/StoreAgent/ui/styles"
)

const placeholder = "Ask about a product, a price or a discount code"

func RenderInput(input string, ready bool, width int) string {
	if input == "" && ready {
		return styles.PlaceholderStyle(width).Render(placeholder)
	}
	return styles.InputStyle(width).Render(input + "▏")
}
