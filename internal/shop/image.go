package shop

import "strings"

const DefaultImage = "/images/products/default-product.webp"

// ResolveImageURL turns a stored image path into a URL the storefront can load.
func ResolveImageURL(image string) string {
	image = strings.TrimSpace(image)
	if image == "" {
		return DefaultImage
	}

	image = strings.ReplaceAll(image, `\`, "/")
	if rest, ok := strings.CutPrefix(image, "/public/"); ok {
		image = "/" + rest
	} else if rest, ok := strings.CutPrefix(image, "public/"); ok {
		image = rest
	}

	switch {
	case strings.HasPrefix(image, "/uploads"):
		return image
	case strings.HasPrefix(image, "uploads"):
		return "/" + image
	case strings.HasPrefix(image, "http"):
		return image
	}
	return "/uploads/" + strings.TrimPrefix(image, "/")
}
