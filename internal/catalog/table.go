package catalog

// groups is the complete register map of the Nilan controller, in poll
// priority order. Addresses and field names follow the controller's
// documented Modbus layout.
var groups = []Group{
	{
		ID: Temp, Name: "temp", Base: 200, Count: 23,
		Bank: BankInput, Decode: DecodeScaled, Segment: "temp",
		Fields: []string{
			"T0_Controller", "T1_Intake", "T2_Inlet", "T3_Exhaust",
			"T4_Outlet", "T5_Cond", "T6_Evap", "T7_Inlet",
			"T8_Outdoor", "T9_Heater", "T10_Extern", "T11_Top",
			"T12_Bottom", "T13_Return", "T14_Supply", "T15_Room",
			"", "", "", "", "",
			"RH",
			"",
		},
	},
	{
		ID: Alarm, Name: "alarm", Base: 400, Count: 10,
		Bank: BankInput, Decode: DecodeBitmask, Segment: "alarm",
		Fields: []string{
			"Status",
			"List_1_ID", "List_1_Date", "List_1_Time",
			"List_2_ID", "List_2_Date", "List_2_Time",
			"List_3_ID", "List_3_Date", "List_3_Time",
		},
	},
	{
		ID: Time, Name: "time", Base: 300, Count: 6,
		Bank: BankHolding, Decode: DecodePlain, Segment: "time",
		Fields: []string{"Second", "Minute", "Hour", "Day", "Month", "Year"},
	},
	{
		ID: Control, Name: "control", Base: 1000, Count: 8,
		Bank: BankHolding, Decode: DecodePlain, Segment: "control",
		Fields: []string{
			"Type", "RunSet", "ModeSet", "VentSet",
			"TempSet", "ServiceMode", "ServicePct", "Preset",
		},
	},
	{
		ID: Speed, Name: "speed", Base: 200, Count: 2,
		Bank: BankHolding, Decode: DecodePlain, Segment: "speed",
		Fields: []string{"ExhaustSpeed", "InletSpeed"},
	},
	{
		ID: Airtemp, Name: "airtemp", Base: 1200, Count: 6,
		Bank: BankHolding, Decode: DecodePlain, Segment: "airtemp",
		Fields: []string{
			"CoolSet", "TempMinSum", "TempMinWin",
			"TempMax", "TempSummer", "TempWinter",
		},
	},
	{
		ID: Airflow, Name: "airflow", Base: 1100, Count: 2,
		Bank: BankHolding, Decode: DecodePlain, Segment: "airflow",
		Fields: []string{"AirExchMode", "CoolVent"},
	},
	{
		ID: Program, Name: "program", Base: 500, Count: 1,
		Bank: BankHolding, Decode: DecodePlain, Segment: "program",
		Fields: []string{"Program"},
	},
	{
		ID: User, Name: "user", Base: 600, Count: 6,
		Bank: BankHolding, Decode: DecodePlain, Segment: "user",
		Fields: []string{
			"UserFuncAct", "UserFuncSet", "UserTimeSet",
			"UserVentSet", "UserTempSet", "UserOffsSet",
		},
	},
	{
		ID: ActState, Name: "actstate", Base: 1000, Count: 4,
		Bank: BankInput, Decode: DecodeBitmask, Segment: "actstate",
		Fields: []string{"RunAct", "ModeAct", "State", "SecInState"},
	},
	{
		ID: Info, Name: "info", Base: 100, Count: 14,
		Bank: BankInput, Decode: DecodeBitmask, Segment: "info",
		Fields: []string{
			"AirFilter", "DoorOpen", "Smoke", "MotorThermo",
			"Frost_overht", "AirFlow", "P_Hi", "P_Lo",
			"Boil", "3WayPos", "DefrostHG", "Defrost",
			"UserFunc", "UserFunc_2",
		},
	},
	{
		ID: InputAirtemp, Name: "inputairtemp", Base: 1200, Count: 7,
		Bank: BankInput, Decode: DecodePlain, Segment: "inputairtemp",
		Fields: []string{
			"IsSummer", "TempInletSet", "TempControl",
			"TempRoom", "EffPct", "CapSet", "CapAct",
		},
	},
	{
		ID: Output, Name: "output", Base: 100, Count: 26,
		Bank: BankHolding, Decode: DecodePlain, Segment: "output",
		Fields: []string{
			"AirFlap", "SmokeFlap", "BypassOpen", "BypassClose",
			"AirCircPump", "AirHeatAllow", "AirHeat_1", "AirHeat_2",
			"AirHeat_3", "Compressor", "Compressor_2", "4WayCool",
			"HotGasHeat", "HotGasCool", "CondOpen", "CondClose",
			"WaterHeat", "3WayValve", "CenCircPump", "CenHeat_1",
			"CenHeat_2", "CenHeat_3", "CenHeatExt", "UserFunc",
			"UserFunc_2", "Defrosting",
		},
	},
	{
		ID: Display1, Name: "display1", Base: 2002, Count: 4,
		Bank: BankHolding, Decode: DecodeText, Segment: "text",
		Fields: []string{"Text_1_2", "Text_3_4", "Text_5_6", "Text_7_8"},
	},
	{
		ID: Display2, Name: "display2", Base: 2007, Count: 4,
		Bank: BankHolding, Decode: DecodeText, Segment: "text",
		Fields: []string{"Text_9_10", "Text_11_12", "Text_13_14", "Text_15_16"},
	},
}

// Groups returns the full catalog in poll priority order.
// The returned slice is shared and must not be mutated.
func Groups() []Group { return groups }

// Lookup resolves a group by name. The table is small enough that a
// linear scan is both acceptable and deterministic.
func Lookup(name string) (Group, bool) {
	for _, g := range groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// FieldName returns the field name at the given register offset within
// the group, or "" when the offset is unnamed or out of range.
func FieldName(g Group, i int) string {
	if i < 0 || i >= len(g.Fields) {
		return ""
	}
	return g.Fields[i]
}
