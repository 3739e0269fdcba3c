package mcpserver

// PhaseTable describes the sixteen buckets and the image each one selects.
const PhaseTable = `# Dayglow phase table

Each instant of the local day maps to one bucket, and bucket N shows the
image <prefix>N<ext> (by default mojave_dynamic_N.jpeg).

| bucket | window |
|---|---|
| 1 | dawn, first half (civil dawn to the dawn/sunrise midpoint) |
| 2 | dawn, second half (up to sunrise) |
| 3 | morning golden hour (first eighth of the day after sunrise) |
| 4-11 | midday, eight equal steps between the golden hours |
| 12 | evening golden hour (last eighth of the day before sunset) |
| 13 | dusk, first half (sunset to the sunset/dusk midpoint) |
| 14 | dusk, second half (up to civil dusk) |
| 15 | night, first half (dusk to the night midpoint) |
| 16 | night, second half (up to the next dawn) |

Civil twilight is the -6 degree solar elevation. In polar day the whole
date is daytime; in polar night the sun events collapse onto solar noon.
`
