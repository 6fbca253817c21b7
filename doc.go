// Copyright 2025 leasehub. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package sheets keeps the leasing worksheets of a Google Sheets spreadsheet and the HubSpot CRM in step.

hubspot-app-sheets can be used from the command line but is really intended to be run from a cron job
after the leasing team has updated the spreadsheet.

hubspot-app-sheets supports the following commands:

  - authorise, to authorise application access to the Google Sheets spreadsheet
  - sync-device-dates, to update the install and lease end dates of HubSpot devices
  - sync-deals, to update HubSpot deals with the leasing details and record the deal company
  - lookup-devices, to assign an unclaimed HubSpot device to every row with a company ID
  - version, to display the current version
*/
package sheets
