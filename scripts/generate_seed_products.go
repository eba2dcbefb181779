package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type seedProduct struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	Image       string `json:"image,omitempty"`
	Stock       int    `json:"stock"`
}

// main writes a sample product seed file that the API seeds the
// catalogue from at startup (CATALOG_SEED_FILE=data/catalog/products.json).
func main() {
	dataDir := "data/catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	products := []seedProduct{
		{ID: "kbd-mech-87", Name: "Mechanical Keyboard", Description: "87-key tenkeyless, brown switches", Price: "89.99", Image: "/images/kbd-mech-87.png", Stock: 24},
		{ID: "mouse-wl-01", Name: "Wireless Mouse", Description: "2.4GHz wireless, 6 buttons", Price: "24.50", Image: "/images/mouse-wl-01.png", Stock: 60},
		{ID: "mon-27-qhd", Name: "27\" QHD Monitor", Description: "2560x1440 IPS, 75Hz", Price: "199.99", Image: "/images/mon-27-qhd.png", Stock: 12},
		{ID: "hub-usbc-7", Name: "USB-C Hub", Description: "7-in-1 with HDMI and card reader", Price: "34.95", Image: "/images/hub-usbc-7.png", Stock: 45},
		{ID: "headset-anc", Name: "ANC Headset", Description: "Over-ear, active noise cancelling", Price: "129.00", Image: "/images/headset-anc.png", Stock: 18},
		{ID: "cam-1080p", Name: "1080p Webcam", Description: "Full HD with privacy shutter", Price: "45.25", Image: "/images/cam-1080p.png", Stock: 30},
		{ID: "desk-mat-xl", Name: "XL Desk Mat", Description: "900x400mm stitched edges", Price: "19.99", Image: "/images/desk-mat-xl.png", Stock: 80},
		{ID: "stand-lap-al", Name: "Aluminium Laptop Stand", Description: "Adjustable height, foldable", Price: "39.00", Image: "/images/stand-lap-al.png", Stock: 26},
	}

	filePath := filepath.Join(dataDir, "products.json")

	file, err := os.Create(filePath)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(products); err != nil {
		log.Fatalf("Failed to write %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d products\n", filePath, len(products))
}
