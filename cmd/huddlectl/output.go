package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"reflect"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/ghodss/yaml"
	"github.com/google/uuid"
	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

type TableField struct {
	Header    string
	Field     string
	Formatter func(item interface{}) string
}

func show(command *cli.Command, fields []TableField, result any) {
	showOutput(command, fields, result)
}

// showPage prints the items of a list page. The total is printed below
// the table when the page does not hold every item.
func showPage[T any](command *cli.Command, fields []TableField, page client.Page[T]) {
	showOutput(command, fields, page.Items)
	if command.String("output") == encodeColumn && page.Meta.Total > int64(len(page.Items)) {
		fmt.Printf("\nshowing %d of %d, page %d\n", len(page.Items), page.Meta.Total, page.Meta.Page)
	}
}

func showOutput(command *cli.Command, fields []TableField, result any) {
	output := command.String("output")
	switch output {
	case encodeJsonPretty:
		bytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("failed to encode the ctl output: %v", err)
		}
		fmt.Println(string(bytes))

	case encodeJsonRaw:
		bytes, err := json.Marshal(result)
		if err != nil {
			log.Fatalf("failed to encode the ctl output: %v", err)
		}
		fmt.Println(string(bytes))

	case encodeYaml:
		bytes, err := yaml.Marshal(result)
		if err != nil {
			log.Fatalf("failed to encode the ctl output: %v", err)
		}
		fmt.Print(string(bytes))

	case encodeColumn, encodeNoHeader:
		table := tablewriter.NewWriter(os.Stdout)
		table.SetBorders(tablewriter.Border{
			Left:   true,
			Right:  true,
			Top:    false,
			Bottom: false,
		})
		table.SetAutoWrapText(false)

		if output != encodeNoHeader {
			var headers []string
			for _, field := range fields {
				headers = append(headers, field.Header)
			}
			table.SetHeader(headers)
		}

		itemsValue := reflect.ValueOf(result)
		if itemsValue.Kind() == reflect.Slice && itemsValue.IsNil() {
			table.Render()
			return
		}
		// if the itemsValue is not a slice, lets turn it into one.
		if itemsValue.Type().Kind() != reflect.Slice {
			itemsValue = reflect.MakeSlice(reflect.SliceOf(itemsValue.Type()), 0, 1)
			itemsValue = reflect.Append(itemsValue, reflect.ValueOf(result))
		}
		for i := 0; i < itemsValue.Len(); i++ {
			itemValue := itemsValue.Index(i)
			var line []string
			for _, field := range fields {
				if field.Formatter != nil {
					line = append(line, field.Formatter(itemValue.Interface()))
				} else if field.Field != "" {
					// Deref the items points.
					for itemValue.Type().Kind() == reflect.Pointer {
						itemValue = itemValue.Elem()
					}
					fieldValue := itemValue.FieldByName(field.Field)
					if !fieldValue.IsValid() {
						panic(fmt.Sprintf("field %s not found", field.Field))
					}
					line = append(line, fieldFormatter(fieldValue))
				} else {
					panic("TableField.Formatter or TableField.Field must be set")
				}
			}
			table.Append(line)
		}
		table.Render()
		return
	default:
		log.Fatalf("unknown --output option: %s", output)
	}
}

func fieldFormatter(itemValue reflect.Value) string {
	switch itemValue.Type().Kind() {
	case reflect.Invalid:
		return ""
	case reflect.Pointer:
		if itemValue.IsNil() {
			return ""
		}
		// deref and try again...
		return fieldFormatter(itemValue.Elem())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", itemValue.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", itemValue.Uint())
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%f", itemValue.Float())
	case reflect.Bool:
		return fmt.Sprintf("%v", itemValue.Bool())
	case reflect.String:
		return itemValue.String()
	}

	switch item := itemValue.Interface().(type) {
	case []byte:
		return string(item)
	case uuid.UUID:
		return item.String()
	case time.Time:
		if item.IsZero() {
			return ""
		}
		return humanize.Time(item)
	}
	bytes, err := json.MarshalIndent(itemValue.Interface(), "", " ")
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func seatStatus(item interface{}) string {
	seat := item.(models.Seat)
	if seat.Available() {
		return color.GreenString("available")
	}
	return color.YellowString("occupied")
}

func optionalID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
