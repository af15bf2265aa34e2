package main

import (
	"fmt"
	"log"

	"xls97"
)

func main() {
	simpleExample()
	customSheetExample()
	roundTripExample()
}

func simpleExample() {
	fmt.Println("Example 1: Simple usage")

	sheet := xls97.SheetInput{
		Name:    "Sheet1",
		Headers: []string{"Name", "Age", "City"},
		Rows: [][]string{
			{"Alice", "30", "Tokyo"},
			{"Bob", "25", "Osaka"},
			{"Charlie", "35", "Kyoto"},
		},
	}

	if err := xls97.Write(sheet, "simple.xls"); err != nil {
		log.Fatalf("Failed to write file: %v", err)
	}

	fmt.Println("  Created: simple.xls")
}

func customSheetExample() {
	fmt.Println("Example 2: Custom sheet name")

	sheet := xls97.SheetInput{
		Name:    "Product List",
		Headers: []string{"Product", "Price", "Stock"},
		Rows: [][]string{
			{"Apple", "100", "50"},
			{"Banana", "80", "100"},
			{"Orange", "120", "30"},
		},
	}

	if err := xls97.Write(sheet, "products.xls"); err != nil {
		log.Fatalf("Failed to write file: %v", err)
	}

	fmt.Println("  Created: products.xls")
}

func roundTripExample() {
	fmt.Println("Example 3: Reading back a written file")

	sheet := xls97.SheetInput{
		Name:    "Sales Report",
		Headers: []string{"Month", "Sales", "Profit"},
		Rows: [][]string{
			{"January", "10000", "2000"},
			{"February", "12000", "2400"},
			{"March", "15000", "3000"},
			{"April", "13000", "2600"},
		},
	}

	if err := xls97.Write(sheet, "sales.xls"); err != nil {
		log.Fatalf("Failed to write file: %v", err)
	}

	wb, err := xls97.Read("sales.xls")
	if err != nil {
		log.Fatalf("Failed to read file back: %v", err)
	}

	sh, ok := wb.Sheet("Sales Report")
	if !ok {
		log.Fatalf("sheet %q not found after round trip", "Sales Report")
	}
	v, _ := sh.Cell(1, 1)
	fmt.Printf("  Created and verified: sales.xls (row 1 col 1 = %v)\n", v.Number)
}
