package protocol

// FieldValueType is the kind of a field's wire value, encoded as a bit-group
// so family membership (int/float/char/string/data) is decidable with a
// single mask, exactly as fix_types.h's FIXFieldValueTypeEnum does.
type FieldValueType int32

const (
	Unknown FieldValueType = -1

	// Integer family: mask 0x0F.
	Int        FieldValueType = 0x01
	Length     FieldValueType = 0x02
	NumInGroup FieldValueType = 0x03
	SeqNum     FieldValueType = 0x04
	TagNum     FieldValueType = 0x05
	DayOfMonth FieldValueType = 0x06

	// Float family: mask 0xF0.
	Float       FieldValueType = 0x10
	Qty         FieldValueType = 0x20
	Price       FieldValueType = 0x30
	PriceOffset FieldValueType = 0x40
	Amt         FieldValueType = 0x50
	Percentage  FieldValueType = 0x60

	// Char family: mask 0xF00.
	Char    FieldValueType = 0x100
	Boolean FieldValueType = 0x200

	// String family: mask 0xF000.
	String              FieldValueType = 0x1000
	MultipleValueString FieldValueType = 0x2000
	Country             FieldValueType = 0x3000
	Currency            FieldValueType = 0x4000
	Exchange            FieldValueType = 0x5000
	MonthYear           FieldValueType = 0x6000
	UTCTimestamp        FieldValueType = 0x7000
	UTCTimeOnly         FieldValueType = 0x8000
	UTCDateOnly         FieldValueType = 0x9000
	LocalMktDate        FieldValueType = 0xA000
	TZTimeOnly          FieldValueType = 0xB000
	TZTimestamp         FieldValueType = 0xC000
	Language            FieldValueType = 0xD000

	// Data family: mask 0xF0000.
	Data    FieldValueType = 0x10000
	XMLData FieldValueType = 0x20000
)

func (t FieldValueType) IsString() bool { return t&0xF000 > 0 }
func (t FieldValueType) IsInt() bool    { return t&0x0F > 0 }
func (t FieldValueType) IsFloat() bool  { return t&0xF0 > 0 }
func (t FieldValueType) IsChar() bool   { return t&0xF00 > 0 }
func (t FieldValueType) IsData() bool   { return t&0xF0000 > 0 }

var fieldValueTypeNames = map[string]FieldValueType{
	"INT":                   Int,
	"LENGTH":                Length,
	"NUMINGROUP":            NumInGroup,
	"SEQNUM":                SeqNum,
	"TAGNUM":                TagNum,
	"DAYOFMONTH":            DayOfMonth,
	"FLOAT":                 Float,
	"QTY":                   Qty,
	"PRICE":                 Price,
	"PRICEOFFSET":           PriceOffset,
	"AMT":                   Amt,
	"PERCENTAGE":            Percentage,
	"CHAR":                  Char,
	"BOOLEAN":               Boolean,
	"STRING":                String,
	"MULTIPLEVALUESTRING":   MultipleValueString,
	"MULTIPLESTRINGVALUE":   MultipleValueString,
	"COUNTRY":               Country,
	"CURRENCY":              Currency,
	"EXCHANGE":              Exchange,
	"MONTHYEAR":             MonthYear,
	"UTCTIMESTAMP":          UTCTimestamp,
	"UTCTIMEONLY":           UTCTimeOnly,
	"UTCDATEONLY":           UTCDateOnly,
	"LOCALMKTDATE":          LocalMktDate,
	"TZTIMEONLY":            TZTimeOnly,
	"TZTIMESTAMP":           TZTimestamp,
	"LANGUAGE":              Language,
	"DATA":                  Data,
	"XMLDATA":               XMLData,
}

// ParseFieldValueType maps a dictionary XML "type" attribute to its
// FieldValueType, mirroring str2FIXFieldValueType.
func ParseFieldValueType(s string) FieldValueType {
	if t, ok := fieldValueTypeNames[s]; ok {
		return t
	}
	return Unknown
}
