/*
Command dstar reduces tables of double star measurements.

Contents

  Program overview
  Command line usage
  Configuration
  File formats
  Reduction outline


Program overview

Input is one or more measurement tables, each row either naming a double
star or giving one measurement of it in pixels and instrument angle.
Output is the same table reduced: separations in arcseconds, position
angles in degrees with the 180° ambiguity resolved where possible, one
measurement per epoch, and objects ordered by right ascension.

Sample run:

     dstar reduce --calib merate.cal --wds wds.txt night1.tex night2.tex > reduced.tex

Statistics of the run are written to stderr as a table.  When a stage
fails, for example on a measurement taken with an instrument the
calibration file does not know, the objects completed before the failure
are still written and the command exits non-zero.


Command line usage

  dstar reduce [flags] FILE...     reduce measurement tables
  dstar calib check FILE           parse a calibration file, list sections
  dstar fetch-wds [PATH]           download the WDS summary
  dstar config init [PATH]         write a sample configuration
  dstar config show                print the effective configuration
  dstar version                    display version and copyright

Reduce flags override the configuration file:

  --calib FILE        calibration file
  --mode MODE         merge mode: full, paper2, none
  --wds FILE          WDS summary file
  --hip FILE          Hipparcos main catalog
  --compare FILE      second reduction of the same nights to compare with
  --out FILE          output table, default stdout
  --objects           list objects with catalog data
  --no-stats          omit the statistics table
  --log-file FILE     JSON run log, rotated
  --log-level LEVEL   debug, info, warn, error


Configuration

Settings are read from dstar.toml in the working directory, or the file
named with --config.  A missing file is not an error.  Use
"dstar config init" for a commented sample listing every setting.


File formats

Measurement tables are LaTeX tabular bodies.  Columns are separated by &
and rows end with \\.  A row may continue on a second line.  Lines
starting with % are comments, %% comments are always dropped.  Separator
lines such as \hline are ignored.  Unresolved values are written \nodata.

An object row gives the name in the first column, optionally preceded by
the WDS designation:

  16564+6502 = STF 2118 AB & ADS 10279 & & & & & & & & WY=2009 WT=67 WR=1.1 \\

The notes column may give the year, position angle and separation of the
last catalog measure as WY=, WT= and WR=.

A measurement row leaves the first column empty:

  & 090904_ads10279_Vd & 09/09/2004 & V & 20 & 14.50 & 0.17 & -23.61 & 0.3 & Q=2 \\

Columns are file, date, filter, instrument code, separation and error in
pixels, position angle and error in instrument degrees, and notes.  In
notes, Q= states the quadrant of the companion (append ? if uncertain),
EP= overrides the epoch computed from the date, and Dm= gives a magnitude
difference, optionally as Dm=0.6+-0.1.  The file name suffix _Vd or _Vr
marks a direct or recorded acquisition in band V.

Calibration files hold key = value lines.  Scale entries are keyed by
focal length, 20mm, or binning, bin2, in arcseconds per pixel.  Sign and
theta0 convert instrument angles: theta = raw*sign + theta0.  A line
=dd/mm/yyyy starts a section valid from that date.  Sign and theta0 carry
into the next section, scales do not.

  20mm = 0.0754
  sign = 1
  theta0 = 89.94
  =01/01/2005
  bin1 = 0.0738

WDS and Hipparcos catalogs are read in their distributed fixed column
formats.


Reduction outline

1.  Rows are read and classified.  Rows that cannot be parsed are skipped
and counted, never fatal.

2.  Each measurement is calibrated with the section in effect at its
epoch.  Errors are raised to noise floors of 0.1 pixel, 0.5% of the
separation and 0.3°.

3.  Position angles are checked against a stated quadrant and flipped by
180° when they disagree.  Without a stated quadrant, the last catalog
angle decides, if measured 1980 or later.

4.  Measurements of one epoch, instrument and filter band are merged.
Each is weighted by the other measurement's share of the summed
separation errors plus its share of the summed angle errors.  In paper2
mode only direct and recorded acquisitions pair, and above 0.3″ the
direct one is kept alone.

5.  Objects are sorted by position and matched to the WDS and Hipparcos
catalogs.  Measurements disagreeing with the catalog beyond the
configured thresholds are listed.

-------------
Public domain.
*/
package main
