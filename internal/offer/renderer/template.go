package renderer

const offerTemplate = `<!DOCTYPE html>
<html lang="it">
<head>
<meta charset="utf-8">
<title>Offerta {{.Quote.QuoteNumber}}</title>
<style>
  body { font-family: Arial, sans-serif; font-size: 10px; line-height: 1.3; color: #000; margin: 0; }
  .page { max-width: 170mm; margin: 0 auto; }
  h2 { font-size: 14px; font-weight: bold; margin: 0 0 15px 0; }
  table { width: 100%; border-collapse: collapse; font-size: 9px; margin-bottom: 15px; }
  th { border: 1px solid #000; padding: 6px; font-weight: bold; background: #B8E6E1; }
  td { border: 1px solid #000; padding: 6px; vertical-align: top; }
  .center { text-align: center; }
  .shaded { background: #f8f9fa; }
  .total-row { background: #B8E6E1; font-weight: bold; }
  .muted { font-style: italic; color: #666; font-size: 8px; }
  .base-price { text-decoration: line-through; color: #999; font-size: 8px; }
  .composition { font-size: 8px; line-height: 1.2; }
  .details p, .details li { font-size: 9px; line-height: 1.4; }
  .footer { text-align: center; font-size: 7px; color: #666; border-top: 1px solid #ccc; padding-top: 5px; margin-top: 40px; line-height: 1.2; }
</style>
</head>
<body>
<div class="page">

  <div style="display: flex; justify-content: space-between; align-items: flex-start; margin-bottom: 30px;">
    <div style="font-size: 32px; font-weight: bold; letter-spacing: 2px;">
      FFD<br><span style="font-size: 24px;">POWER</span>
    </div>
    <div style="text-align: right; font-size: 9px;">
      <div><strong>Offerta:</strong> {{.Quote.QuoteNumber}}</div>
      <div><strong>Codice:</strong> {{.Quote.ReferenceCode}}</div>
      <div><strong>Data:</strong> {{.IssueDate}}</div>
      <div><strong>Valida fino al:</strong> {{.ValidUntil}}</div>
      {{if .QRCode}}<div style="margin-top: 6px;"><img src="{{.QRCode}}" width="56" height="56" alt=""></div>{{end}}
    </div>
  </div>

  <div style="margin-bottom: 20px; font-size: 9px;">
    <div><strong>Cliente:</strong> {{.Quote.CustomerData.Name}}{{if .Quote.CustomerData.Company}} - {{.Quote.CustomerData.Company}}{{end}}</div>
    {{if .Quote.CustomerData.Address}}<div>{{.Quote.CustomerData.Address}}</div>{{end}}
    <div><strong>Potenza richiesta:</strong> {{.Quote.CustomerData.PowerKW}} kW &nbsp;&nbsp; <strong>Capacit&agrave; richiesta:</strong> {{.Quote.CustomerData.CapacityKWH}} kWh</div>
    {{if .Usage}}<div><strong>Applicazioni:</strong> {{.Usage}}</div>{{end}}
  </div>

  <h2>3.6. Component list and prices</h2>
  <table>
    <thead>
      <tr>
        <th style="text-align: left;">Description and model</th>
        <th class="center">Unit Price (&euro;)</th>
        <th class="center">Quantity (#)</th>
        <th class="center">Total Price (&euro;)</th>
        <th style="text-align: left;">Composition</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr{{if .Shaded}} class="shaded"{{end}}>
        <td>
          <div style="font-weight: bold; margin-bottom: 2px;">{{.Name}}</div>
          <div class="muted">{{.CategoryLabel}}</div>
          <div class="muted" style="margin-top: 6px;"><em>Incoterms</em></div>
        </td>
        <td class="center">
          {{if .Discounted}}<div class="base-price">{{.BasePrice}}</div>{{end}}
          {{.UnitPrice}}
          {{if .Discounted}}<div class="muted">sconto {{.DiscountPct}}%</div>{{end}}
        </td>
        <td class="center">{{.Quantity}}</td>
        <td class="center">
          {{.TotalPrice}}
          <div class="muted" style="margin-top: 2px;">EXW Cremona, Italy</div>
        </td>
        <td class="composition">{{range $i, $line := .Composition}}{{if $i}}&bull; {{end}}{{$line}}<br>{{end}}</td>
      </tr>
      {{end}}
      <tr class="shaded">
        <td>
          <div style="font-weight: bold; margin-bottom: 2px;">EMS (Energy Management System)</div>
          <div class="muted" style="margin-top: 6px;"><em>Incoterms</em></div>
        </td>
        <td class="center">0,00</td>
        <td class="center">1,00</td>
        <td class="center">0,00<div class="muted" style="margin-top: 2px;">EXW Cremona, Italy</div></td>
        <td class="composition">EMS included</td>
      </tr>
      <tr>
        <td>
          <div style="font-weight: bold; margin-bottom: 2px;">DDP Package</div>
          <div class="muted" style="margin-top: 6px;"><em>Incoterms</em></div>
        </td>
        <td class="center">0,00</td>
        <td class="center">1,00</td>
        <td class="center">0,00<div class="muted" style="margin-top: 2px;">EXW Cremona, Italy</div></td>
        <td class="composition">Transport TBD</td>
      </tr>
      <tr class="total-row">
        <td>
          TOTAL
          <div class="muted" style="margin-top: 6px; font-weight: normal;"><em>Incoterms</em></div>
        </td>
        <td class="center"></td>
        <td class="center"></td>
        <td class="center">
          {{.Total}}
          <div class="muted" style="margin-top: 2px; font-weight: normal;">EXW Cremona, Italy</div>
        </td>
        <td></td>
      </tr>
    </tbody>
  </table>

  <div class="details" style="margin-bottom: 30px;">
    <h2>3.6. Offer details</h2>
    <p style="text-align: justify;">
      Supply and commissioning of a plug &amp; play OUTDOOR storage system complete with
      bi-directional inverter, BMS (HV Box), EMS, battery module, measuring system,
      DC connection cables between the various cabinets and commissioning of the system.
      Service life 8,000 cycles, operating temperature -30&deg;C to + 55&deg;C with humidity
      0 to 95% and corrosion level C3. Complete with automatic fire extinguishing system
      using liquid and smoke detector.
    </p>

    <p style="font-weight: bold; margin-bottom: 10px;">The BESS offer includes:</p>
    <ul>
      <li>Battery cabinet body;</li>
      <li>Distribution and uninterruptible power supply (UPS) systems;</li>
      <li>Automatic fire suppression system;</li>
      <li>Liquid cooling temperature control system;</li>
      <li>Submerged fire extinguishing system;</li>
      <li>Control cabinet;</li>
      <li>Lightning protection system.</li>
    </ul>

    <p style="font-weight: bold; margin: 15px 0 10px 0;">The PCS offer includes:</p>
    <ul>
      <li>Enjoy Power EPCS 125-AM;</li>
      <li>EMS Kit.</li>
    </ul>

    <p style="font-weight: bold; margin: 15px 0 10px 0;">The offer includes:</p>
    <ul>
      <li>Supply of the components listed above;</li>
      <li>Assistance during installation;</li>
      <li>Commissioning of the installation;</li>
      <li>Remote supervision and monitoring.</li>
    </ul>
  </div>

  <div class="footer">
    FFD Power Italy S.r.l., with registered office in Brescia (BS), Via Matto no. 10,
    enrolled in the Brescia Register of Companies R.E.A. no. 621413, tax code and VAT
    no. 04528390984, certified electronic mail (PEC) address ffdpoweritaly@pec.buffetti.it,
    share capital &euro;680,400.00 fully paid up.
  </div>

</div>
</body>
</html>
`
